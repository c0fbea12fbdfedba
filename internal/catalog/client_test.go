package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okDocument = `<?xml version="1.0" encoding="UTF-8"?>
<response>
  <header>
    <resultCode>0000</resultCode>
    <resultMsg>OK</resultMsg>
  </header>
  <body>
    <items>
      <item>
        <title>Heungbu and Nolbu</title>
        <creator>Anonymous</creator>
        <description>%s</description>
      </item>
      <item>
        <title>The Sun and the Moon</title>
        <description>%s</description>
        <subjectKeyword>tiger</subjectKeyword>
      </item>
    </items>
  </body>
</response>`

func newTestServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(server *httptest.Server, key string, strict bool) *Client {
	return NewClient(key, Options{
		BaseURL:      server.URL,
		HTTPClient:   server.Client(),
		StrictHeader: strict,
	})
}

func TestFetch_NoAPIKey(t *testing.T) {
	var calls int32
	server := newTestServer(t, http.StatusOK, "<response/>", &calls)

	page, err := newTestClient(server, "", false).Fetch(context.Background(), 1, 50)

	assert.Nil(t, page)
	f, ok := AsFailure(err)
	require.True(t, ok, "want *Failure, got %T", err)
	assert.Equal(t, CodeNoAPIKey, f.Code)
	assert.Equal(t, KindNoCredential, f.Kind())
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestFetch_SendsQueryParameters(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte("<response><header><resultCode>00</resultCode></header></response>"))
	}))
	defer server.Close()

	_, err := newTestClient(server, "secret+key", false).Fetch(context.Background(), 3, 20)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "secret+key", got.URL.Query().Get("serviceKey"))
	assert.Equal(t, "3", got.URL.Query().Get("pageNo"))
	assert.Equal(t, "20", got.URL.Query().Get("numOfRows"))
}

func TestFetch_HTTPError(t *testing.T) {
	server := newTestServer(t, http.StatusNotFound, "", nil)

	_, err := newTestClient(server, "key", false).Fetch(context.Background(), 1, 50)

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "HTTP_404", f.Code)
	assert.Equal(t, KindTransport, f.Kind())
}

func TestFetch_TransportException(t *testing.T) {
	server := newTestServer(t, http.StatusOK, "", nil)
	client := newTestClient(server, "key", false)
	server.Close()

	_, err := client.Fetch(context.Background(), 1, 50)

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, CodeException, f.Code)
	assert.Equal(t, KindTransport, f.Kind())
	assert.NotNil(t, f.Unwrap())
}

func TestFetch_SuccessCodes(t *testing.T) {
	for _, code := range []string{"00", "0000"} {
		t.Run(code, func(t *testing.T) {
			body := fmt.Sprintf(`<response><header><resultCode>%s</resultCode><resultMsg>NORMAL SERVICE.</resultMsg></header>
<body><items><item><title>a</title></item><item><title>b</title></item><item><title>c</title></item></items></body></response>`, code)
			server := newTestServer(t, http.StatusOK, body, nil)

			page, err := newTestClient(server, "key", false).Fetch(context.Background(), 2, 10)
			require.NoError(t, err)

			assert.Len(t, page.Items, 3)
			assert.Equal(t, 3, page.TotalCount)
			assert.Equal(t, code, page.ResultCode)
			assert.Equal(t, 2, page.PageNo)
			assert.Equal(t, 10, page.NumOfRows)
			assert.Equal(t, "b", page.Items[1]["title"])
		})
	}
}

func TestFetch_UpstreamError(t *testing.T) {
	tests := []struct {
		code string
		msg  string
	}{
		{"12", "NO_OPENAPI_SERVICE_ERROR"},
		{"30", "SERVICE_KEY_IS_NOT_REGISTERED_ERROR"},
		{"99", "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			body := fmt.Sprintf("<response><header><resultCode>%s</resultCode><resultMsg>%s</resultMsg></header></response>", tt.code, tt.msg)
			server := newTestServer(t, http.StatusOK, body, nil)

			page, err := newTestClient(server, "key", false).Fetch(context.Background(), 1, 50)

			assert.Nil(t, page)
			f, ok := AsFailure(err)
			require.True(t, ok)
			assert.Equal(t, "API_ERROR_"+tt.code, f.Code)
			assert.Equal(t, tt.msg, f.Message)
			assert.Equal(t, tt.code, f.ResultCode)
			assert.Equal(t, KindUpstream, f.Kind())
		})
	}
}

func TestFetch_MalformedXML(t *testing.T) {
	bodies := map[string]string{
		"unclosed":   "<response><header><resultCode>00</resultCode>",
		"garbage":    "this is not xml <<<",
		"empty":      "",
		"mismatched": "<response><body></response></body>",
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, http.StatusOK, body, nil)

			_, err := newTestClient(server, "key", false).Fetch(context.Background(), 1, 50)

			f, ok := AsFailure(err)
			require.True(t, ok, "want *Failure, got %v", err)
			assert.Equal(t, CodeXMLParse, f.Code)
			assert.Equal(t, KindParse, f.Kind())
			assert.NotEmpty(t, f.Message)
		})
	}
}

func TestFetch_MissingHeader(t *testing.T) {
	body := "<response><body><items><item><title>only</title></item></items></body></response>"

	t.Run("lenient treats as success", func(t *testing.T) {
		server := newTestServer(t, http.StatusOK, body, nil)
		page, err := newTestClient(server, "key", false).Fetch(context.Background(), 1, 50)
		require.NoError(t, err)
		assert.Equal(t, "00", page.ResultCode)
		assert.Equal(t, "SUCCESS", page.ResultMsg)
		assert.Len(t, page.Items, 1)
	})

	t.Run("strict rejects", func(t *testing.T) {
		server := newTestServer(t, http.StatusOK, body, nil)
		_, err := newTestClient(server, "key", true).Fetch(context.Background(), 1, 50)
		f, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, CodeMissingHeader, f.Code)
		assert.Equal(t, KindParse, f.Kind())
	})
}

func TestFetchStories_FiltersShortContent(t *testing.T) {
	body := fmt.Sprintf(okDocument, strings.Repeat("a", 10), strings.Repeat("b", 200))
	server := newTestServer(t, http.StatusOK, body, nil)

	stories, err := newTestClient(server, "key", false).FetchStories(context.Background(), 1, 50)
	require.NoError(t, err)

	require.Len(t, stories, 1)
	assert.Equal(t, "The Sun and the Moon", stories[0].Title)
	assert.Equal(t, "tiger", stories[0].Keyword)
	assert.Equal(t, DefaultAuthor, stories[0].Author)
}

func TestFetchStories_EmptyResult(t *testing.T) {
	body := fmt.Sprintf(okDocument, "short", "also short")
	server := newTestServer(t, http.StatusOK, body, nil)

	_, err := newTestClient(server, "key", false).FetchStories(context.Background(), 1, 50)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestFetchStories_PropagatesFailure(t *testing.T) {
	server := newTestServer(t, http.StatusInternalServerError, "", nil)

	_, err := newTestClient(server, "key", false).FetchStories(context.Background(), 1, 50)

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "HTTP_500", f.Code)
}
