package parser

import (
	"fmt"
	"strconv"
	"unicode"
)

const (
	// SchemaV1 is the space separated ALB access log layout:
	//
	//	type time elb client:port target:port request_processing_time target_processing_time ...
	SchemaV1 = "v1"

	// targetProcessingTimeField is the index of target_processing_time.
	targetProcessingTimeField = 6
)

type fieldParser struct {
	index int
}

func newFieldParser(opts Options) (Parser, error) {
	index := targetProcessingTimeField
	if opts.Field != "" {
		n, err := strconv.Atoi(opts.Field)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("schema %s: field must be a non-negative token index, got %q", SchemaV1, opts.Field)
		}
		index = n
	}
	return &fieldParser{index: index}, nil
}

func (p *fieldParser) Parse(line string) (Record, error) {
	token, ok := nthField(line, p.index)
	if !ok {
		return Record{}, &ParseError{
			Schema: SchemaV1,
			Reason: fmt.Sprintf("line has fewer than %d fields", p.index+1),
		}
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return Record{}, &ParseError{
			Schema: SchemaV1,
			Reason: fmt.Sprintf("field %d is not a number", p.index),
			Err:    err,
		}
	}
	return Record{ProcessingTime: v}, nil
}

// nthField returns the n-th whitespace separated token of line without
// splitting the remainder of the line. Whitespace is judged per rune, so
// multi-byte characters never split a token.
func nthField(line string, n int) (string, bool) {
	field, start := 0, -1
	for i, r := range line {
		if !unicode.IsSpace(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if field == n {
				return line[start:i], true
			}
			field++
			start = -1
		}
	}
	if start >= 0 && field == n {
		return line[start:], true
	}
	return "", false
}
