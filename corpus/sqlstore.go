package corpus

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"

	"github.com/teranos/comex/errors"
)

// SaveSQL replaces the stored corpus with c in one transaction.
// The schema is created by db.Migrate.
func SaveSQL(ctx context.Context, db *sql.DB, c *Corpus) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin save")
	}
	defer tx.Rollback()

	for _, table := range []string{"edges", "comment_indices", "splits", "comments"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "clear %s", table)
		}
	}

	for pos, cm := range c.Comments() {
		var created interface{}
		if !cm.Timestamp.IsZero() {
			created = cm.Timestamp.UTC().Format(time.RFC3339Nano)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO comments (id, position, author, created_at) VALUES (?, ?, ?, ?)",
			cm.ID, pos, cm.Author, created); err != nil {
			return errors.Wrapf(err, "insert comment %s", cm.ID)
		}
		for j, s := range cm.Splits {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO splits (comment_id, split_index, text) VALUES (?, ?, ?)",
				cm.ID, j, s.Text); err != nil {
				return errors.Wrapf(err, "insert split %s/%d", cm.ID, j)
			}
		}
	}

	for idx, id := range c.Idx2ID {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO comment_indices (idx, comment_id) VALUES (?, ?)", idx, id); err != nil {
			return errors.Wrapf(err, "insert comment index %d", idx)
		}
	}

	for pos, e := range c.Edges {
		weights, err := json.Marshal(e.Weights)
		if err != nil {
			return errors.Wrapf(err, "encode weights of edge %d", pos)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (position, src_comment, src_split, tgt_comment, tgt_split, weights)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			pos, e.Src[0], e.Src[1], e.Tgt[0], e.Tgt[1], string(weights)); err != nil {
			return errors.Wrapf(err, "insert edge %d", pos)
		}
	}

	return errors.Wrap(tx.Commit(), "commit save")
}

// LoadSQL reads the stored corpus. Filters start cleared.
func LoadSQL(ctx context.Context, db *sql.DB) (*Corpus, error) {
	c := New()

	rows, err := db.QueryContext(ctx, "SELECT id, author, created_at FROM comments ORDER BY position")
	if err != nil {
		return nil, errors.Wrap(err, "query comments")
	}
	for rows.Next() {
		var (
			cm      Comment
			created sql.NullString
		)
		if err := rows.Scan(&cm.ID, &cm.Author, &created); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan comment")
		}
		if created.Valid && created.String != "" {
			ts, err := time.Parse(time.RFC3339Nano, created.String)
			if err != nil {
				rows.Close()
				return nil, errors.Wrapf(err, "parse timestamp of %s", cm.ID)
			}
			cm.Timestamp = ts
		}
		if err := c.Add(&cm); err != nil {
			rows.Close()
			return nil, err
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, errors.Wrap(err, "iterate comments")
	}

	rows, err = db.QueryContext(ctx, "SELECT comment_id, split_index, text FROM splits ORDER BY comment_id, split_index")
	if err != nil {
		return nil, errors.Wrap(err, "query splits")
	}
	for rows.Next() {
		var (
			id   string
			j    int
			text string
		)
		if err := rows.Scan(&id, &j, &text); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan split")
		}
		cm, ok := c.Comment(id)
		if !ok || j != len(cm.Splits) {
			rows.Close()
			return nil, errors.NewInvalidDataError("split %s/%d out of order", id, j)
		}
		cm.Splits = append(cm.Splits, Split{Text: text})
	}
	if err := closeRows(rows); err != nil {
		return nil, errors.Wrap(err, "iterate splits")
	}

	rows, err = db.QueryContext(ctx, "SELECT idx, comment_id FROM comment_indices")
	if err != nil {
		return nil, errors.Wrap(err, "query comment indices")
	}
	for rows.Next() {
		var (
			idx int
			id  string
		)
		if err := rows.Scan(&idx, &id); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan comment index")
		}
		c.Idx2ID[idx] = id
	}
	if err := closeRows(rows); err != nil {
		return nil, errors.Wrap(err, "iterate comment indices")
	}

	rows, err = db.QueryContext(ctx,
		"SELECT src_comment, src_split, tgt_comment, tgt_split, weights FROM edges ORDER BY position")
	if err != nil {
		return nil, errors.Wrap(err, "query edges")
	}
	for rows.Next() {
		var (
			e       RawEdge
			weights string
		)
		if err := rows.Scan(&e.Src[0], &e.Src[1], &e.Tgt[0], &e.Tgt[1], &weights); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan edge")
		}
		if err := json.Unmarshal([]byte(weights), &e.Weights); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "decode edge weights")
		}
		c.Edges = append(c.Edges, e)
	}
	if err := closeRows(rows); err != nil {
		return nil, errors.Wrap(err, "iterate edges")
	}

	c.IndexComments()
	return c, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
