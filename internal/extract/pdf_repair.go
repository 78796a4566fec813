package extract

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDFRepair reads documents the primary reader rejects (broken xref tables,
// non-standard headers) using pdfcpu in relaxed mode and scans each page's content
// stream for text-showing operators.
func extractPDFRepair(data []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		stream, err := io.ReadAll(r)
		if err != nil || len(stream) == 0 {
			continue
		}
		if text := strings.TrimSpace(textFromContentStream(stream)); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no text content found in %d pages", ctx.PageCount)
	}
	return strings.Join(pages, "\n\n"), nil
}

// operand is one value collected before a content-stream operator
type operand struct {
	num     float64
	isNum   bool
	strings []string
}

// textFromContentStream rebuilds lines from the Tj, TJ, ' and " operators.
// Td/TD with a vertical offset, T* and Tm with a new y position start a new line.
func textFromContentStream(stream []byte) string {
	var (
		sb       strings.Builder
		operands []operand
		lastY    float64
		haveY    bool
	)
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	space := func() {
		s := sb.String()
		if s != "" && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
			sb.WriteByte(' ')
		}
	}
	show := func() {
		for _, op := range operands {
			for _, str := range op.strings {
				sb.WriteString(str)
			}
		}
	}
	number := func(idx int) (float64, bool) {
		if idx < 0 || idx >= len(operands) || !operands[idx].isNum {
			return 0, false
		}
		return operands[idx].num, true
	}

	sc := &streamScanner{data: stream}
	for {
		tok, kind := sc.next()
		if kind == tokenEOF {
			break
		}
		switch kind {
		case tokenNumber:
			if f, err := strconv.ParseFloat(tok, 64); err == nil {
				operands = append(operands, operand{num: f, isNum: true})
			}
			continue
		case tokenString:
			operands = append(operands, operand{strings: []string{tok}})
			continue
		case tokenArray:
			operands = append(operands, operand{strings: sc.arrayStrings})
			continue
		case tokenOther:
			continue
		}

		switch tok {
		case "Tj", "TJ":
			show()
		case "'", "\"":
			newline()
			show()
		case "T*":
			newline()
		case "Td", "TD":
			if ty, ok := number(len(operands) - 1); ok && ty != 0 {
				newline()
			} else {
				space()
			}
		case "Tm":
			if y, ok := number(len(operands) - 1); ok && len(operands) >= 6 {
				if haveY && math.Abs(y-lastY) > lineBreakDelta {
					newline()
				} else if haveY {
					space()
				}
				lastY, haveY = y, true
			}
		case "ET":
			space()
		}
		operands = operands[:0]
	}
	return sb.String()
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenString
	tokenArray
	tokenOperator
	tokenOther
)

// streamScanner is a minimal tokenizer for page content streams
type streamScanner struct {
	data         []byte
	pos          int
	arrayStrings []string
}

func (s *streamScanner) next() (string, tokenKind) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isPDFSpace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			return decodePDFString(s.literal()), tokenString
		case c == '<' && s.peek(1) == '<':
			s.pos += 2
			return "<<", tokenOther
		case c == '>' && s.peek(1) == '>':
			s.pos += 2
			return ">>", tokenOther
		case c == '<':
			return s.hexString(), tokenString
		case c == '[':
			s.pos++
			s.arrayStrings = nil
			for s.pos < len(s.data) && s.data[s.pos] != ']' {
				switch s.data[s.pos] {
				case '(':
					s.arrayStrings = append(s.arrayStrings, decodePDFString(s.literal()))
				case '<':
					s.arrayStrings = append(s.arrayStrings, s.hexString())
				default:
					s.pos++
				}
			}
			s.pos++
			return "", tokenArray
		case c == '/':
			start := s.pos
			s.pos++
			for s.pos < len(s.data) && !isPDFSpace(s.data[s.pos]) && !isPDFDelimiter(s.data[s.pos]) {
				s.pos++
			}
			return string(s.data[start:s.pos]), tokenOther
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			start := s.pos
			s.pos++
			for s.pos < len(s.data) && (s.data[s.pos] == '.' || (s.data[s.pos] >= '0' && s.data[s.pos] <= '9')) {
				s.pos++
			}
			return string(s.data[start:s.pos]), tokenNumber
		case isPDFDelimiter(c):
			s.pos++
			return string(c), tokenOther
		default:
			start := s.pos
			for s.pos < len(s.data) && !isPDFSpace(s.data[s.pos]) && !isPDFDelimiter(s.data[s.pos]) {
				s.pos++
			}
			return string(s.data[start:s.pos]), tokenOperator
		}
	}
	return "", tokenEOF
}

func (s *streamScanner) peek(offset int) byte {
	if s.pos+offset < len(s.data) {
		return s.data[s.pos+offset]
	}
	return 0
}

// literal reads a balanced (...) string and returns its raw body
func (s *streamScanner) literal() string {
	s.pos++ // opening paren
	start := s.pos
	depth := 1
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '\\':
			s.pos++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				body := string(s.data[start:s.pos])
				s.pos++
				return body
			}
		}
		s.pos++
	}
	return string(s.data[start:])
}

// hexString reads <48656C6C6F> and decodes it as single-byte text
func (s *streamScanner) hexString() string {
	s.pos++
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; !isPDFSpace(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			return ""
		}
		out = append(out, byte(v))
	}
	return string(out)
}

func isPDFSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isPDFDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

// decodePDFString resolves escape sequences inside a PDF literal string
func decodePDFString(raw string) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			// octal escape, up to three digits
			val := 0
			n := 0
			for n < 3 && i < len(raw) && raw[i] >= '0' && raw[i] <= '7' {
				val = val*8 + int(raw[i]-'0')
				i++
				n++
			}
			i--
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}
