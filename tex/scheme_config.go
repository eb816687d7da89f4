package tex

import "gopkg.in/yaml.v2"

// schemeFile is the on-disk shape of a named CatcodeScheme preset,
// following the same struct-tag yaml.v2 unmarshal style as
// params.configFile. Entries is a sparse byte->catcode override list
// applied on top of plain TeX's defaults.
type schemeFile struct {
	Newline int    `yaml:"newline"`
	Endline int32  `yaml:"endline"`
	Escape  int32  `yaml:"escape"`
	Entries []struct {
		Byte    int `yaml:"byte"`
		Catcode int `yaml:"catcode"`
	} `yaml:"entries"`
}

// LoadSchemeYAML parses a CatcodeScheme preset document (plain TeX's
// defaults, overridden per Entries) — the format cmd/texdump's
// --scheme flag reads.
func LoadSchemeYAML(data []byte) (*CatcodeScheme, error) {
	var sf schemeFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, err
	}
	s := NewPlainTeXScheme()
	if sf.Newline != 0 {
		s.Newline = byte(sf.Newline)
	}
	if sf.Endline != 0 {
		s.Endline = sf.Endline
	} else {
		s.Endline = int32('\r')
	}
	if sf.Escape != 0 {
		s.EscapeCh = sf.Escape
	} else {
		s.EscapeCh = int32('\\')
	}
	for _, e := range sf.Entries {
		cc, ok := CategoryCodeFromInt(int32(e.Catcode))
		if !ok {
			return nil, newErr(NumberFormatError, SourceReference{}, "invalid category code %d for byte %d", e.Catcode, e.Byte)
		}
		s.SetCatcode(byte(e.Byte), cc)
	}
	return s, nil
}
