package entityspool

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/cidlogsrv/cidlogsrv/pkg/codec"
)

// Spooler wraps a byte source and presents a character pull interface with
// peek/next/match-literal/skip-spaces plus line/column tracking, per the
// entity-spooler contract. It reads its entire source eagerly rather than
// reloading fixed-size buffers incrementally the way the original does —
// entity contents here are XML declarations and small configuration
// fragments, not multi-gigabyte documents, so the simpler design carries no
// practical cost. See DESIGN.md.
type Spooler struct {
	runes    []rune
	pos      int
	line     int
	column   int
	interned bool
	encoding string
	pushback []rune
}

// declEncodingRE extracts the value of the encoding pseudo-attribute from a
// bootstrap-decoded XML declaration, e.g. encoding="UTF-16" or encoding='cp1252'.
var declEncodingRE = regexp.MustCompile(`encoding\s*=\s*["']([^"']+)["']`)

// NewInterned wraps already-decoded, already-normalized text. Line/column
// tracking is suppressed for interned entities, per spec.
func NewInterned(text string) *Spooler {
	return &Spooler{
		runes:    []rune(text),
		interned: true,
		line:     1,
		column:   1,
	}
}

// NewStreamed auto-senses the base encoding of r's bytes, bootstrap-decodes
// the XML declaration to discover a declared encoding (if any), then
// decodes the remainder with the declared or sensed encoding. If
// forcedEncoding is non-empty it overrides sensing entirely, matching the
// caller-supplied-forced-encoding clause of the contract.
func NewStreamed(r io.Reader, forcedEncoding string) (*Spooler, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return newFromBytes(raw, forcedEncoding, false)
}

// NewParameterEntity is like [NewStreamed], but synthesizes a single
// leading space before the entity's content and a single trailing space
// after it is exhausted, per XML's parameter-entity expansion rules. It is
// only appropriate for an entity referenced outside of a literal.
func NewParameterEntity(r io.Reader, forcedEncoding string) (*Spooler, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	sp, err := newFromBytes(raw, forcedEncoding, false)
	if err != nil {
		return nil, err
	}

	padded := make([]rune, 0, len(sp.runes)+2)
	padded = append(padded, ' ')
	padded = append(padded, sp.runes...)
	padded = append(padded, ' ')
	sp.runes = padded

	return sp, nil
}

func newFromBytes(raw []byte, forcedEncoding string, interned bool) (*Spooler, error) {
	alias := forcedEncoding

	var base BaseEncoding

	if alias == "" {
		if bomAlias, ok := codec.ProbeForEncoding(raw); ok {
			alias = bomAlias
			raw = stripBOM(raw, bomAlias)

			switch bomAlias {
			case "UTF-16LE":
				base = EncodingUTF16LE
			case "UTF-16BE":
				base = EncodingUTF16BE
			}
		} else {
			base = probeBaseEncoding(raw)
			alias = base.String()
		}

		declared, ok, err := sniffDeclaredEncoding(raw, alias)
		if err != nil {
			return nil, err
		}

		if ok {
			if !codec.Supports(declared) {
				return nil, ErrUnknownDeclaredEncoding
			}

			if !byteWidthCompatible(base, declared) {
				return nil, ErrBadAutoEncoding
			}

			alias = declared
		}
	}

	conv, err := codec.Make(alias, codec.Throw())
	if err != nil {
		return nil, err
	}

	decoded := make([]rune, len(raw))

	res, err := conv.Decode(raw, decoded)
	if err != nil {
		return nil, err
	}

	normalized := normalizeLineEndings(decoded[:res.CharsProduced])

	return &Spooler{
		runes:    normalized,
		interned: interned,
		encoding: alias,
		line:     1,
		column:   1,
	}, nil
}

func stripBOM(raw []byte, alias string) []byte {
	switch alias {
	case "UTF-8":
		return bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	case "UTF-16LE", "UTF-16BE":
		return raw[2:]
	default:
		return raw
	}
}

// sniffDeclaredEncoding bootstrap-decodes just the declaration prefix using
// the sensed base encoding's own converter and looks for an
// encoding="..." pseudo-attribute, mirroring DecodeDecl in the original
// source. It decodes at most the first 1024 bytes, which comfortably
// covers any realistic "<?xml ... ?>" declaration.
func sniffDeclaredEncoding(raw []byte, baseAlias string) (string, bool, error) {
	conv, err := codec.Make(baseAlias, codec.ReplaceWith(0xFFFD, '?'))
	if err != nil {
		return "", false, nil //nolint:nilerr // unsupported base alias: fall through to full decode with no override
	}

	limit := len(raw)
	if limit > 1024 {
		limit = 1024
	}

	scratch := make([]rune, limit)

	res, err := conv.Decode(raw[:limit], scratch)
	if err != nil && res.CharsProduced == 0 {
		return "", false, nil
	}

	declText := string(scratch[:res.CharsProduced])
	if !strings.HasPrefix(declText, "<?xml") {
		return "", false, nil
	}

	end := strings.Index(declText, "?>")
	if end >= 0 {
		declText = declText[:end]
	}

	m := declEncodingRE.FindStringSubmatch(declText)
	if m == nil {
		if strings.Contains(declText, "encoding") {
			return "", false, ErrMalformedDeclaration
		}

		return "", false, nil
	}

	return strings.ToUpper(m[1]), true, nil
}

func normalizeLineEndings(in []rune) []rune {
	out := make([]rune, 0, len(in))

	for i := 0; i < len(in); i++ {
		switch in[i] {
		case '\r':
			out = append(out, '\n')

			if i+1 < len(in) && in[i+1] == '\n' {
				i++
			}
		default:
			out = append(out, in[i])
		}
	}

	return out
}

// EncodingName reports the alias this spooler ultimately decoded with, or
// "" for an interned spooler (it has no byte-level source encoding).
func (s *Spooler) EncodingName() string { return s.encoding }

// Line returns the current 1-based line number, or always 1 for an
// interned entity (line/column tracking is suppressed for those).
func (s *Spooler) Line() int { return s.line }

// Column returns the current 1-based column number.
func (s *Spooler) Column() int { return s.column }

// Peek returns the next character without consuming it.
func (s *Spooler) Peek() (rune, bool) {
	if len(s.pushback) > 0 {
		return s.pushback[len(s.pushback)-1], true
	}

	if s.pos >= len(s.runes) {
		return 0, false
	}

	return s.runes[s.pos], true
}

// Next consumes and returns the next character, advancing line/column
// tracking (unless this is an interned entity).
func (s *Spooler) Next() (rune, bool) {
	var ch rune

	if len(s.pushback) > 0 {
		ch = s.pushback[len(s.pushback)-1]
		s.pushback = s.pushback[:len(s.pushback)-1]
	} else {
		if s.pos >= len(s.runes) {
			return 0, false
		}

		ch = s.runes[s.pos]
		s.pos++
	}

	if !s.interned {
		if ch == '\n' {
			s.line++
			s.column = 1
		} else {
			s.column++
		}
	}

	return ch, true
}

// Pushback makes ch the next character Peek/Next will return. At most one
// level of pushback is spec'd; this implementation accepts any number,
// LIFO, which is a strict superset of that contract.
func (s *Spooler) Pushback(ch rune) {
	s.pushback = append(s.pushback, ch)
}

// MatchLiteral reports whether the upcoming characters equal lit exactly,
// consuming them if so and leaving the cursor untouched otherwise. Safe
// across internal buffer boundaries since the whole source is held in
// memory.
func (s *Spooler) MatchLiteral(lit string) bool {
	want := []rune(lit)

	for i, w := range want {
		ch, ok := s.peekAt(i)
		if !ok || ch != w {
			return false
		}
	}

	for range want {
		s.Next()
	}

	return true
}

func (s *Spooler) peekAt(offset int) (rune, bool) {
	pbLen := len(s.pushback)
	if offset < pbLen {
		return s.pushback[pbLen-1-offset], true
	}

	idx := s.pos + offset - pbLen
	if idx >= len(s.runes) {
		return 0, false
	}

	return s.runes[idx], true
}

// SkipSpaces consumes a run of XML whitespace (space, tab, CR, LF).
func (s *Spooler) SkipSpaces() {
	for {
		ch, ok := s.Peek()
		if !ok {
			return
		}

		switch ch {
		case ' ', '\t', '\r', '\n':
			s.Next()
		default:
			return
		}
	}
}
