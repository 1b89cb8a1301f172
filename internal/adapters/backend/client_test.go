package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GibaTrindade/bot-seplag/internal/adapters/backend"
	"github.com/GibaTrindade/bot-seplag/internal/domain"
)

func TestFetchSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/carga-horaria/", r.URL.Path)
		assert.Equal(t, "05551234455", r.URL.Query().Get("cpf"))
		w.Write([]byte(`{"nome":"Maria Silva","cpf":"05551234455","carga_horaria_total":120,"periodo":"2025.1"}`))
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	schedule, err := client.FetchSchedule(context.Background(), "05551234455")
	require.NoError(t, err)

	assert.Equal(t, "Maria Silva", schedule.Name)
	assert.Equal(t, "05551234455", schedule.CPF)
	assert.Equal(t, "120", schedule.TotalHours.String())
	assert.Equal(t, "2025.1", schedule.Period)
}

func TestFetchSchedule_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cpf nao encontrado", http.StatusNotFound)
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	_, err := client.FetchSchedule(context.Background(), "00000000000")

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusNotFound, upstream.Status)
	assert.Contains(t, upstream.Message, "cpf nao encontrado")
}

func TestFetchSchedule_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := backend.New(srv.URL)
	_, err := client.FetchSchedule(context.Background(), "05551234455")

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Zero(t, upstream.Status)
}

func TestFetchCourses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cursos-disponiveis/", r.URL.Path)
		w.Write([]byte(`{"cursos":[
			{"nome":"Gestao Publica","data_inicio":"01/03/2025","data_termino":"30/04/2025","ch":60,"link":"https://pfc.example/c/1"},
			{"nome":"LGPD Basico","data_inicio":"05/03/2025","data_termino":"05/05/2025","ch":40,"link":"https://pfc.example/c/2"}
		]}`))
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	courses, err := client.FetchCourses(context.Background())
	require.NoError(t, err)

	require.Len(t, courses, 2)
	assert.Equal(t, "Gestao Publica", courses[0].Name)
	assert.Equal(t, "40", courses[1].Hours.String())
}

func TestFetchCourses_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cursos":[]}`))
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	courses, err := client.FetchCourses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestSearchParliamentarians(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emendas/", r.URL.Path)
		assert.Equal(t, "silva", r.URL.Query().Get("nome"))
		w.Write([]byte(`{"parlamentares":[{"id":42,"nome":"Joao Silva"},{"id":77,"nome":"Ana Silva"}]}`))
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	candidates, err := client.SearchParliamentarians(context.Background(), "silva")
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, "Joao Silva", candidates[0].DisplayName)
	assert.Equal(t, "42", candidates[0].ExternalID.String())
}

func TestFetchAmendmentSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emendas/resumo/42/", r.URL.Path)
		w.Write([]byte(`{"nome":"Joao Silva","valor_investimento":1500000.5,"valor_liquidado":320000,"impedimentos_tecnicos":3}`))
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	summary, err := client.FetchAmendmentSummary(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, "Joao Silva", summary.Name)
	assert.InDelta(t, 1500000.5, summary.InvestmentTotal, 0.001)
	assert.InDelta(t, 320000, summary.LiquidatedTotal, 0.001)
	assert.Equal(t, 3, summary.ImpedimentCount)
}

func TestFetchCalendarDocument(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gerar_curadoria/2025/06", r.URL.Path)
		w.Write(pdf)
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	data, err := client.FetchCalendarDocument(context.Background(), 2025, "06")
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

func TestFetchCalendarDocument_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agenda indisponivel", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := backend.New(srv.URL)
	_, err := client.FetchCalendarDocument(context.Background(), 2025, "06")

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
}
