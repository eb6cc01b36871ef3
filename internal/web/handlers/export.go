package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ledger-resolve/internal/ledger"
	"github.com/ledger-resolve/internal/normalize"
)

// ExportHandler serves search results as a CSV download
type ExportHandler struct {
	Search *SearchHandler
}

// ExportCSV handles GET /export?pan=&seed_name=&limit=
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	res, ok := h.Search.resolve(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(r)))
	if err := ledger.WriteCSV(w, res.Rows); err != nil {
		h.Search.logger().Warn("csv export interrupted", zap.Error(err))
	}
}

func exportFilename(r *http.Request) string {
	seed := strings.Map(func(c rune) rune {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return c
		}
		return -1
	}, normalize.CanonicalizeIdentifier(r.URL.Query().Get("pan")))
	if seed == "" {
		seed = "name"
	}
	return fmt.Sprintf("ledger_%s_%s.csv", seed, time.Now().Format("20060102_150405"))
}
