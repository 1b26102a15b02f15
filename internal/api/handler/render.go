package handler

import (
	"html/template"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/web"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Templates são embutidos no binário e analisados uma única vez na carga
var templates = template.Must(template.ParseFS(web.TemplatesFS, "templates/*.html"))

// renderPage escreve uma página HTML a partir de um template embutido
func renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		logrus.WithError(err).WithField("template", name).Error("Erro ao renderizar template")
	}
}

// writeJSON serializa a resposta dos endpoints /v1
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta JSON")
	}
}
