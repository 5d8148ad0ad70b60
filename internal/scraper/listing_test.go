package scraper

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListing(t *testing.T) {
	page, err := url.Parse("https://example.org/pda/2025/")
	require.NoError(t, err)

	html := `<html><body>
		<a href="1T2025.zip"> 1T2025.zip </a>
		<a href="https://mirror.example.org/files/2T2025.zip">download</a>
		<a href="sub/3t2025.zip">3t2025.zip</a>
		<a href="1T2025.zip">1T2025.zip</a>
		<a href="manual.pdf">manual.pdf</a>
		<a href="dados.zip">dados.zip</a>
		<a href="4T2025.ZIP">4T2025.ZIP</a>
		<a>no href</a>
	</body></html>`

	links, err := parseListing(strings.NewReader(html), page)
	require.NoError(t, err)

	assert.Equal(t, []ArchiveLink{
		{URL: "https://example.org/pda/2025/1T2025.zip", Name: "1T2025.zip"},
		{URL: "https://mirror.example.org/files/2T2025.zip", Name: "2T2025.zip"},
		{URL: "https://example.org/pda/2025/sub/3t2025.zip", Name: "3t2025.zip"},
	}, links)
}

func TestArchiveName(t *testing.T) {
	tests := []struct {
		text, path, want string
	}{
		{"1T2025.zip", "/x/1T2025.zip", "1T2025.zip"},
		{"Baixar", "/x/1T2025.zip", "1T2025.zip"},
		{"../../etc/1T2025.zip", "/x/2T2025.zip", "2T2025.zip"},
		{"", "/", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, archiveName(tt.text, tt.path), "text=%q path=%q", tt.text, tt.path)
	}
}
