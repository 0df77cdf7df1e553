package words

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"fortio.org/log"
	"google.golang.org/api/iterator"
)

// ReadBigQuery loads a word scope from a BigQuery table (column word_key)
// instead of a file. The same veto and length filtering as Read applies.
// Lists are replaced, file order is the query's row order.
func (w *Words) ReadBigQuery(ctx context.Context, project, table, scope string) error {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	q := client.Query(fmt.Sprintf("SELECT word_key FROM `%s` WHERE scope = @scope ORDER BY word_key", table))
	q.Parameters = []bigquery.QueryParameter{{Name: "scope", Value: scope}}
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return fmt.Errorf("job.Read: %w", err)
	}
	for i := range w.Lists {
		w.Lists[i] = nil
	}
	n := 0
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("it.Next: %w", err)
		}
		word, ok := row[0].(string)
		if !ok {
			return fmt.Errorf("word_key is not a string: %v", row[0])
		}
		l := len(word)
		if l == 0 || l >= MaxLen {
			continue
		}
		if w.vetoed[l] != nil && w.vetoed[l].Has(word) {
			continue
		}
		w.Lists[l] = append(w.Lists[l], word)
		n++
	}
	log.Infof("Loaded %d words for scope %q from %s", n, scope, table)
	return nil
}
