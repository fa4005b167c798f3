package entityspool

// BaseEncoding is one of the six base encodings the spooler can auto-sense
// from the first bytes of an entity, before any [codec.Converter] exists.
type BaseEncoding int

const (
	EncodingUTF8 BaseEncoding = iota
	EncodingUTF16LE
	EncodingUTF16BE
	EncodingUCS4LE
	EncodingUCS4BE
	EncodingEBCDICUS
)

// String returns the codec registry alias for e.
func (e BaseEncoding) String() string {
	switch e {
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUCS4LE:
		return "UCS-4LE"
	case EncodingUCS4BE:
		return "UCS-4BE"
	case EncodingEBCDICUS:
		return "EBCDIC-CP-US"
	default:
		return "UTF-8"
	}
}

// signature is the fixed byte prefix that identifies one base encoding: the
// leading bytes of the literal "<?xml " as that encoding would represent it.
// Order matches [BaseEncoding]'s enum, following the original source's
// aac1EncodingSeqs table.
var signatures = [][]byte{
	EncodingUTF8:     {0x3C, 0x3F, 0x78, 0x6D, 0x6C, 0x20},
	EncodingUTF16LE:  {0x3C, 0x00, 0x3F, 0x00, 0x78, 0x00},
	EncodingUTF16BE:  {0x00, 0x3C, 0x00, 0x3F, 0x00, 0x78},
	EncodingUCS4LE:   {0x3C, 0x00, 0x00, 0x00, 0x3F, 0x00},
	EncodingUCS4BE:   {0x00, 0x00, 0x00, 0x3C, 0x00, 0x00},
	EncodingEBCDICUS: {0x4C, 0x6F, 0xA7, 0x94, 0x93, 0x40},
}

// byteWidthCompatible reports whether a declared encoding alias is
// plausible given the base encoding the bootstrap decode already used to
// read that declaration. A document sensed as 2-byte or 4-byte code units
// cannot actually be single-byte text, whatever its declaration claims,
// per the original's contradiction check in DecodeDecl.
func byteWidthCompatible(base BaseEncoding, declaredAlias string) bool {
	switch base {
	case EncodingUTF16LE, EncodingUTF16BE:
		switch declaredAlias {
		case "UTF-16", "UTF-16LE", "UTF-16BE", "UCS-2":
			return true
		default:
			return false
		}
	case EncodingUCS4LE, EncodingUCS4BE:
		switch declaredAlias {
		case "UCS-4", "UCS-4LE", "UCS-4BE":
			return true
		default:
			return false
		}
	default:
		return true
	}
}

// probeBaseEncoding matches up to the first 6 bytes of prefix against the
// fixed signature table and returns the first match. Shorter-than-6-byte
// prefixes are matched against their own length. No match (including an
// empty prefix) defaults to UTF-8, since that is the base encoding an XML
// document with neither a BOM nor a declaration is defined to use.
func probeBaseEncoding(prefix []byte) BaseEncoding {
	n := len(prefix)
	if n > 6 {
		n = 6
	}

	for enc, sig := range signatures {
		if n == 0 {
			break
		}

		match := true

		for i := 0; i < n; i++ {
			if prefix[i] != sig[i] {
				match = false

				break
			}
		}

		if match {
			return BaseEncoding(enc)
		}
	}

	return EncodingUTF8
}
