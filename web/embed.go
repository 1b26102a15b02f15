package web

import "embed"

// TemplatesFS embute os templates HTML do painel
//
//go:embed templates/*.html
var TemplatesFS embed.FS
