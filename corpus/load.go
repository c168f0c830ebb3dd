package corpus

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/teranos/comex/errors"
)

// fileFormat is the on-disk JSON shape of a corpus.
type fileFormat struct {
	Comments []commentJSON     `json:"comments"`
	Edges    []RawEdge         `json:"edges"`
	Idx2ID   map[string]string `json:"idx2id,omitempty"`
}

type commentJSON struct {
	ID        string     `json:"id"`
	Author    string     `json:"author,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Splits    []Split    `json:"splits"`
}

// LoadJSON reads a corpus from a JSON file.
func LoadJSON(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open corpus %s", path)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode corpus %s", path)
	}
	return c, nil
}

// Decode reads a corpus from r. Comments keep file order. When idx2id is
// absent it is derived from that order.
func Decode(r io.Reader) (*Corpus, error) {
	var ff fileFormat
	if err := json.NewDecoder(r).Decode(&ff); err != nil {
		return nil, errors.Wrap(err, "invalid corpus JSON")
	}

	c := New()
	for _, cj := range ff.Comments {
		cm := &Comment{ID: cj.ID, Author: cj.Author, Splits: cj.Splits}
		if cj.Timestamp != nil {
			cm.Timestamp = *cj.Timestamp
		}
		if err := c.Add(cm); err != nil {
			return nil, err
		}
	}
	c.Edges = ff.Edges

	for key, id := range ff.Idx2ID {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.NewInvalidDataError("idx2id key %q is not an integer", key)
		}
		c.Idx2ID[idx] = id
	}
	c.IndexComments()

	return c, nil
}

// Encode writes c in the format Decode reads.
func Encode(w io.Writer, c *Corpus) error {
	ff := fileFormat{
		Comments: make([]commentJSON, 0, c.Len()),
		Edges:    c.Edges,
		Idx2ID:   make(map[string]string, len(c.Idx2ID)),
	}
	for _, cm := range c.Comments() {
		cj := commentJSON{ID: cm.ID, Author: cm.Author, Splits: cm.Splits}
		if !cm.Timestamp.IsZero() {
			ts := cm.Timestamp
			cj.Timestamp = &ts
		}
		ff.Comments = append(ff.Comments, cj)
	}
	for idx, id := range c.Idx2ID {
		ff.Idx2ID[strconv.Itoa(idx)] = id
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ff)
}
