package config

import (
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout of a memory seed:
//
//	records:
//	  - id: r1
//	    Subject: Math
//	    Marks: 8
type seedFile struct {
	Records []map[string]any `yaml:"records"`
}

// LoadSeedFile reads score documents from a YAML file. Documents are returned as-is;
// malformed ones are rejected by the refresh cycle, not here.
func LoadSeedFile(path string) ([]model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "seed file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("path", path))
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse seed file", goerr.V("path", path))
	}

	docs := make([]model.Document, 0, len(seed.Records))
	for _, rec := range seed.Records {
		doc := model.Document{}
		for k, v := range rec {
			if k == "id" {
				doc[model.FieldID] = fmt.Sprint(v)
				continue
			}
			doc[k] = v
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
