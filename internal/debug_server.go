package internal

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgraph-io/badger/v4"
)

// InspectRow is one key-value pair rendered by the debug inspector.
type InspectRow struct {
	Key    string `json:"key"`
	Size   int    `json:"size"`
	Detail any    `json:"detail,omitempty"`
}

// RowMapper turns a raw stored value into something readable. Nil values
// in the returned row are omitted from the JSON.
type RowMapper func(key string, val []byte) InspectRow

// StartDebugServer exposes a read-only JSON view of the store under
// /inspect?prefix=..., for development only. It listens in the background
// and is never wired when the log level is above debug.
func StartDebugServer(db *badger.DB, port int, mapper RowMapper) {
	if mapper == nil {
		mapper = DefaultMapper
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := []byte(r.URL.Query().Get("prefix"))

		var rows []InspectRow
		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					rows = append(rows, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

func DefaultMapper(key string, val []byte) InspectRow {
	return InspectRow{Key: key, Size: len(val)}
}
