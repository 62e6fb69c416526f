package flatfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/config"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/projection"
)

const sample = "\ufeffDate , Marketid,In_Stock, Total _Stock ,cost,Active,Recommended Shipping\n" +
	"01/06/2025,EAST,12,15,12.50,true,GROUND\n" +
	"\n" +
	",,,,,,\n" +
	"01/07/2025,WEST,,3,abc,false,OVERNIGHT\n"

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, projection.SourceRow{
		"Date":                 "01/06/2025",
		"Marketid":             "EAST",
		"In_Stock":             int64(12),
		"Total _Stock":         int64(15),
		"cost":                 12.5,
		"Active":               true,
		"Recommended Shipping": "GROUND",
	}, rows[0])

	assert.Nil(t, rows[1]["In_Stock"])
	assert.Equal(t, "abc", rows[1]["cost"])
	assert.Equal(t, false, rows[1]["Active"])
}

func TestParse_ShortLinesAndEmptyFile(t *testing.T) {
	rows, err := Parse(strings.NewReader("Date,Marketid,In_Stock\n01/06/2025,EAST\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0]["In_Stock"])

	rows, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParse_ProjectsWithLegacyHeaders(t *testing.T) {
	rows, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	records := projection.ProjectAll(rows, projection.DelimitedFileRow)
	assert.Equal(t, int64(15), records[0].TotalStock)
	assert.Equal(t, 12.5, records[0].UnitCost)
	assert.Equal(t, int64(0), records[1].InStock)
	assert.Equal(t, 0.0, records[1].UnitCost)
}

func TestInfer(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{in: "", want: nil},
		{in: "  ", want: nil},
		{in: "42", want: int64(42)},
		{in: "-3", want: int64(-3)},
		{in: "4.25", want: 4.25},
		{in: "TRUE", want: true},
		{in: "NaN", want: "NaN"},
		{in: "01/06/2025", want: "01/06/2025"},
		{in: " text ", want: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Infer(tt.in))
		})
	}
}

type stubClient struct {
	body []byte
	err  error
	url  string
}

func (s *stubClient) Download(_ context.Context, url string) ([]byte, error) {
	s.url = url
	return s.body, s.err
}

func TestRepository_Load(t *testing.T) {
	t.Run("local path wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "inventory.csv")
		require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
		client := &stubClient{}

		rows, err := NewRepository(config.LegacyConfig{FilePath: path, FileURL: "https://example.com/x.csv"}, client, nil).Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Empty(t, client.url)
	})

	t.Run("remote url", func(t *testing.T) {
		client := &stubClient{body: []byte(sample)}

		rows, err := NewRepository(config.LegacyConfig{FileURL: "https://example.com/x.csv"}, client, nil).Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, "https://example.com/x.csv", client.url)
	})

	t.Run("download failure", func(t *testing.T) {
		boom := errors.New("timeout")
		_, err := NewRepository(config.LegacyConfig{FileURL: "https://example.com/x.csv"}, &stubClient{err: boom}, nil).Load(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewRepository(config.LegacyConfig{}, nil, nil).Load(context.Background())
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
