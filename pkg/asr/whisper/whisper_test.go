package whisper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entrhq/scribe/pkg/asr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-medium", r.FormValue("model"))
		assert.Equal(t, "text", r.FormValue("response_format"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "standup.mp3", header.Filename)

		audio, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("fake-audio"), audio)

		_, _ = w.Write([]byte("We approved the Q3 budget.\n"))
	}))
	defer server.Close()

	p := NewProvider("", WithBaseURL(server.URL+"/v1"))
	text, err := p.Transcribe(context.Background(), []byte("fake-audio"), "standup.mp3", asr.QualityMedium)
	require.NoError(t, err)
	assert.Equal(t, "We approved the Q3 budget.", text)
}

func TestTranscribeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported audio", http.StatusBadRequest)
	}))
	defer server.Close()

	p := NewProvider("", WithBaseURL(server.URL))
	_, err := p.Transcribe(context.Background(), []byte{0x00}, "corrupt.wav", asr.QualityBase)
	require.Error(t, err)

	var trErr *asr.TranscriptionError
	assert.ErrorAs(t, err, &trErr)
}

func TestTranscribeUnknownQuality(t *testing.T) {
	p := NewProvider("")
	_, err := p.Transcribe(context.Background(), []byte("x"), "a.mp3", asr.Quality("enormous"))
	assert.Error(t, err)
}

func TestWithModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	p := NewProvider("sk", WithBaseURL(server.URL), WithModels(map[asr.Quality]string{
		asr.QualityTiny: "whisper-1",
	}))
	text, err := p.Transcribe(context.Background(), []byte("x"), "a.mp3", asr.QualityTiny)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestParseQuality(t *testing.T) {
	q, err := asr.ParseQuality("small")
	require.NoError(t, err)
	assert.Equal(t, asr.QualitySmall, q)

	_, err = asr.ParseQuality("large")
	assert.Error(t, err)
}
