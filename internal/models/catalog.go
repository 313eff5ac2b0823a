package models

import "slices"

// Properties is the fixed list of rentals a turnover can be registered for.
var Properties = []string{
	"Balancon",
	"Benjamin",
	"Cliente Emma",
	"Estrella del mar",
	"La jaquita 2",
	"La ola apartamento",
	"La ola estudio",
	"La perla A4",
	"La perla A11",
	"La perla C13",
	"La perla C17",
	"Lagos de miramar",
	"Lagos de mirazul",
	"Mar azul",
	"Marbella",
}

var Workers = []string{"Rosa", "Nicole", "Joan"}

var Extras = []string{"Agua", "Vino", "Papel"}

type Catalog struct {
	Properties []string `json:"properties"`
	Workers    []string `json:"workers"`
	Extras     []string `json:"extras"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Properties: append([]string(nil), Properties...),
		Workers:    append([]string(nil), Workers...),
		Extras:     append([]string(nil), Extras...),
	}
}

func IsProperty(name string) bool {
	return slices.Contains(Properties, name)
}

func IsWorker(name string) bool {
	return slices.Contains(Workers, name)
}

func IsExtra(name string) bool {
	return slices.Contains(Extras, name)
}
