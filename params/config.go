package params

import (
	"os"

	"gopkg.in/yaml.v2"
)

// configFile mirrors the teacher's yaml-fixture-unmarshal pattern
// (testutil/testutil.go's TestCase struct): a plain struct with yaml
// tags, loaded once at startup.
type configFile struct {
	Singlethreaded   bool `yaml:"singlethreaded"`
	DoLog            bool `yaml:"do_log"`
	StoreInFile      bool `yaml:"store_in_file"`
	CopyTokensFull   bool `yaml:"copy_tokens_full"`
	CopyCommandsFull bool `yaml:"copy_commands_full"`
	Fatal            bool `yaml:"fatal"`
}

// Load reads a YAML-encoded Params document from path. Logger is
// always set to StdoutLogger{} (or NullLogger{} if DoLog is false);
// YAML has no sensible way to name a Go interface implementation.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// LoadBytes is Load without the file read, useful for embedding a
// config document inline (e.g. in tests).
func LoadBytes(data []byte) (*Params, error) {
	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	p := &Params{
		Singlethreaded:   cf.Singlethreaded,
		DoLog:            cf.DoLog,
		StoreInFile:      cf.StoreInFile,
		CopyTokensFull:   cf.CopyTokensFull,
		CopyCommandsFull: cf.CopyCommandsFull,
		Fatal:            cf.Fatal,
	}
	if p.DoLog {
		p.Logger = StdoutLogger{}
	} else {
		p.Logger = NullLogger{}
	}
	return p, nil
}
