package codec

import "golang.org/x/text/encoding/charmap"

// registerBuiltins installs every encoding this package implements under
// its canonical alias plus the common spellings spec'd for the registry.
func registerBuiltins(r *Registry) {
	r.AddMapping("US-ASCII", newASCIIConverter)
	r.AddMapping("ASCII", newASCIIConverter)

	r.AddMapping("UTF-8", newUTF8Converter)
	r.AddMapping("UTF8", newUTF8Converter)

	r.AddMapping("UTF-16LE", newUTF16LEConverter)
	r.AddMapping("UTF-16BE", newUTF16BEConverter)
	r.AddMapping("UCS-2", newUTF16LEConverter) // endianness resolves to platform native; this build targets little-endian hosts.

	r.AddMapping("UCS-4LE", newUCS4LEConverter)
	r.AddMapping("UCS-4BE", newUCS4BEConverter)

	r.AddMapping("ISO-8859-1", newISO8859_1Converter)
	r.AddMapping("LATIN-1", newISO8859_1Converter)

	r.AddMapping("ISO-8859-2", newSingleByteFactory(charmap.ISO8859_2))
	r.AddMapping("ISO-8859-3", newSingleByteFactory(charmap.ISO8859_3))
	r.AddMapping("ISO-8859-4", newSingleByteFactory(charmap.ISO8859_4))
	r.AddMapping("ISO-8859-5", newSingleByteFactory(charmap.ISO8859_5))
	r.AddMapping("ISO-8859-6", newSingleByteFactory(charmap.ISO8859_6))

	r.AddMapping("CP437", newSingleByteFactory(charmap.CodePage437))
	r.AddMapping("CP850", newSingleByteFactory(charmap.CodePage850))
	r.AddMapping("CP1251", newSingleByteFactory(charmap.Windows1251))
	r.AddMapping("CP1252", newSingleByteFactory(charmap.Windows1252))

	r.AddMapping("EBCDIC-CP-US", newSingleByteFactory(charmap.CodePage037))
	r.AddMapping("IBM037", newSingleByteFactory(charmap.CodePage037))
	r.AddMapping("IBM1140", newSingleByteFactory(charmap.CodePage1140))
}
