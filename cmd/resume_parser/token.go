package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the API server",
	Long:  "Issue a signed bearer token using JWT_SECRET (and JWT_ISSUER, JWT_EXPIRATION_HOURS if set) for clients of a server started with auth enabled.",
	RunE:  runToken,
}

var tokenSubject string

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Subject (client name) to embed in the token")
	_ = tokenCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(tokenSubject)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, token)
	return nil
}
