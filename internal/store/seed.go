package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Classifier picks the value column for a literal.
type Classifier interface {
	Column(text string) string
}

// seedFile is the YAML layout accepted by LoadSeed:
//
//	entries:
//	  - id: tx-1
//	    tags:
//	      transactionId: 1
//	      date: 2001-08-01
//	      transactionRef: '123-sdf'
type seedFile struct {
	Entries []seedEntry `yaml:"entries"`
}

type seedEntry struct {
	ID   string    `yaml:"id"`
	Tags yaml.Node `yaml:"tags"`
}

// LoadSeed reads seed entries from r and stores their tags. Entries without an
// id get a generated one. Quoted scalars are classified the way a quoted
// literal in a filter is, so '55' is stored as a string. It returns the number
// of tags written.
func (s *Store) LoadSeed(ctx context.Context, r io.Reader, classify Classifier) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	var file seedFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to parse seed file: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	written := 0
	for i, entry := range file.Entries {
		id := entry.ID
		if id == "" {
			id = NewEntryID()
		}

		tags, err := seedTags(entry.Tags)
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}

		for _, kv := range tags {
			tag := Tag{
				EntryID: id,
				Name:    kv.name,
				Column:  classify.Column(kv.literal()),
				Value:   kv.value,
			}
			if err := s.insertTag(ctx, tx, tag); err != nil {
				return 0, fmt.Errorf("entry %d: %w", i+1, err)
			}
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}

	s.logger.Info("seed loaded", "entries", len(file.Entries), "tags", written)
	return written, nil
}

type seedTag struct {
	name   string
	value  string
	quoted bool
}

// literal returns the value as it would be written in a filter.
func (t seedTag) literal() string {
	if t.quoted {
		return "'" + t.value + "'"
	}
	return t.value
}

// seedTags returns the tags of one entry in file order.
func seedTags(node yaml.Node) ([]seedTag, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("tags must be a mapping (line %d)", node.Line)
	}

	tags := make([]seedTag, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("tag %s: value must be a scalar (line %d)", key.Value, value.Line)
		}
		tags = append(tags, seedTag{
			name:   key.Value,
			value:  value.Value,
			quoted: value.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0,
		})
	}
	return tags, nil
}
