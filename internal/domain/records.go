package domain

import "encoding/json"

// Schedule is the carga-horária record returned by the PFC backend.
type Schedule struct {
	Name       string      `json:"nome"`
	CPF        string      `json:"cpf"`
	TotalHours json.Number `json:"carga_horaria_total"`
	Period     string      `json:"periodo"`
}

// Course is one entry of the available-courses listing.
type Course struct {
	Name  string      `json:"nome"`
	Start string      `json:"data_inicio"`
	End   string      `json:"data_termino"`
	Hours json.Number `json:"ch"`
	Link  string      `json:"link"`
}

// CandidateRecord is one parliamentarian returned by the amendment search.
// It lives only between the search and the selection steps.
type CandidateRecord struct {
	DisplayName string      `json:"nome"`
	ExternalID  json.Number `json:"id"`
}

// AmendmentSummary aggregates the amendment totals for one parliamentarian.
type AmendmentSummary struct {
	Name            string  `json:"nome"`
	InvestmentTotal float64 `json:"valor_investimento"`
	LiquidatedTotal float64 `json:"valor_liquidado"`
	ImpedimentCount int     `json:"impedimentos_tecnicos"`
}
