package parser

import (
	"github.com/wesleyorama2/lathist/pkg/jsonpath"
)

const (
	// SchemaJSON reads one JSON object per line.
	SchemaJSON = "json"

	defaultJSONField = "$.target_processing_time"
)

type jsonParser struct {
	path jsonpath.Path
}

func newJSONParser(opts Options) (Parser, error) {
	field := opts.Field
	if field == "" {
		field = defaultJSONField
	}
	path, err := jsonpath.Compile(field)
	if err != nil {
		return nil, err
	}
	return &jsonParser{path: path}, nil
}

func (p *jsonParser) Parse(line string) (Record, error) {
	v, err := p.path.Float(line)
	if err != nil {
		return Record{}, &ParseError{Schema: SchemaJSON, Reason: "no latency value", Err: err}
	}
	return Record{ProcessingTime: v}, nil
}
