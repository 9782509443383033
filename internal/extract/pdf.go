package extract

import (
	"bytes"
	"compress/zlib"
	"io"
	"strings"
)

// pdfText extracts literal strings from text-showing operators (Tj/TJ) in
// the document's content streams. FlateDecode streams are inflated first;
// anything fancier (CID fonts, predictors, encrypted files) is out of scope
// for brief documents, which are overwhelmingly simple exports.
func pdfText(data []byte) (string, error) {
	var sb strings.Builder

	for _, stream := range contentStreams(data) {
		scanTextOperators(stream, &sb)
	}

	// Some generators leave text operators in the raw file body.
	if sb.Len() == 0 {
		scanTextOperators(data, &sb)
	}

	return sb.String(), nil
}

// contentStreams returns every stream body, inflated when it is zlib data.
func contentStreams(data []byte) [][]byte {
	var streams [][]byte
	rest := data

	for {
		idx := bytes.Index(rest, []byte("stream"))
		if idx < 0 {
			break
		}

		body := rest[idx+len("stream"):]
		// The keyword is followed by CRLF or LF.
		if len(body) > 0 && body[0] == '\r' {
			body = body[1:]
		}
		if len(body) > 0 && body[0] == '\n' {
			body = body[1:]
		}

		end := bytes.Index(body, []byte("endstream"))
		if end < 0 {
			break
		}

		raw := body[:end]
		if inflated, err := inflate(raw); err == nil {
			streams = append(streams, inflated)
		} else {
			streams = append(streams, raw)
		}

		rest = body[end+len("endstream"):]
	}

	return streams
}

func inflate(raw []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// scanTextOperators walks BT..ET blocks collecting literal strings fed to
// Tj and TJ, separating text lines on Td/TD/T* moves.
func scanTextOperators(data []byte, sb *strings.Builder) {
	rest := data

	for {
		bt := bytes.Index(rest, []byte("BT"))
		if bt < 0 {
			return
		}
		et := bytes.Index(rest[bt:], []byte("ET"))
		if et < 0 {
			return
		}

		block := rest[bt : bt+et]
		i := 0
		for i < len(block) {
			switch block[i] {
			case '(':
				str, next := literalString(block, i)
				sb.WriteString(str)
				i = next
			case 'T':
				if i+1 < len(block) {
					switch block[i+1] {
					case 'd', 'D', '*':
						sb.WriteByte('\n')
					}
				}
				i++
			default:
				i++
			}
		}
		sb.WriteByte('\n')

		rest = rest[bt+et:]
	}
}

// literalString decodes a PDF literal string starting at the opening
// parenthesis, returning the decoded text and the index after the closing
// parenthesis.
func literalString(data []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start

	for i < len(data) {
		c := data[i]
		switch c {
		case '\\':
			if i+1 < len(data) {
				switch data[i+1] {
				case 'n':
					sb.WriteByte('\n')
				case 't':
					sb.WriteByte('\t')
				case 'r', 'f', 'b':
					// ignored control escapes
				default:
					sb.WriteByte(data[i+1])
				}
				i += 2
				continue
			}
			i++
		case '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
			i++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
			i++
		default:
			if depth > 0 {
				sb.WriteByte(c)
			}
			i++
		}
	}

	return sb.String(), i
}
