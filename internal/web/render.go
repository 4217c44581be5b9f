package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"solana-token-desk/internal/predictions"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageTemplates struct {
	t *template.Template
}

func parseTemplates() (pageTemplates, error) {
	funcs := template.FuncMap{
		"formatUSD": func(v float64) string {
			return fmt.Sprintf("$%.2f", v)
		},
		"formatVolume": func(v string) string {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return "—"
			}
			return predictions.FormatVolume(f)
		},
		"formatPrice": predictions.FormatPrice,
		"probability": predictions.Probability,
		"shortAddr": func(s string) string {
			if len(s) <= 10 {
				return s
			}
			return s[:4] + "…" + s[len(s)-4:]
		},
		"unixDate": func(ts int64) string {
			if ts == 0 {
				return ""
			}
			return time.Unix(ts, 0).UTC().Format("2006-01-02")
		},
	}

	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return pageTemplates{}, err
	}
	return pageTemplates{t: t}, nil
}

// render executes a named page template. Template failures at this point
// mean the response is already partially written, so they are only logged.
func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.t.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("render failed", zap.String("template", name), zap.Error(err))
	}
}
