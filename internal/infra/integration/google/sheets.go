package google

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/xavierca1/leadsync/internal/entity"
)

// SheetFetcher lê os valores de uma aba via Sheets API v4.
type SheetFetcher struct {
	endpoint string
	http     *http.Client
}

type FetcherOption func(*SheetFetcher)

// WithEndpoint aponta o fetcher para outro host (testes, proxy).
func WithEndpoint(endpoint string) FetcherOption {
	return func(f *SheetFetcher) {
		f.endpoint = endpoint
	}
}

func WithFetcherHTTPClient(c *http.Client) FetcherOption {
	return func(f *SheetFetcher) {
		f.http = c
	}
}

func NewSheetFetcher(opts ...FetcherOption) *SheetFetcher {
	f := &SheetFetcher{
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch devolve a grade de células. Resposta sem "values" vira grade vazia, não erro.
func (f *SheetFetcher) Fetch(ctx context.Context, token *entity.AccessToken, spreadsheetID, tabName string) (entity.SheetGrid, error) {
	if token == nil || token.Value == "" {
		return nil, &FetchError{Err: errors.New("missing access token")}
	}

	srv, err := f.service(ctx, token)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	resp, err := srv.Spreadsheets.Values.Get(spreadsheetID, tabName).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			log.Printf("❌ [SHEETS_API] Error: %d %s", gerr.Code, gerr.Body)
			return nil, &FetchError{StatusCode: gerr.Code, Body: gerr.Body, Err: err}
		}
		return nil, &FetchError{Err: err}
	}

	grid := make(entity.SheetGrid, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellString(cell)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// service monta um cliente por chamada com o bearer estático; nada é reaproveitado entre syncs.
func (f *SheetFetcher) service(ctx context.Context, token *entity.AccessToken) (*sheets.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token.Value,
		TokenType:   "Bearer",
		Expiry:      token.Expiry,
	})
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, f.http), ts)
	client.Timeout = f.http.Timeout

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if f.endpoint != "" {
		opts = append(opts, option.WithEndpoint(f.endpoint))
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cliente sheets: %w", err)
	}
	return srv, nil
}

// cellString normaliza a célula; números vêm como float64 quando a aba usa UNFORMATTED_VALUE.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
