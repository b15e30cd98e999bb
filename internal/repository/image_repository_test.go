package repository

import (
	"context"
	"errors"
	"testing"

	apperrors "go-price-ocr/internal/errors"
	"go-price-ocr/pkg/validation"
)

type stubFetcher struct {
	data  []byte
	err   error
	calls []string
}

func (s *stubFetcher) FetchImage(_ context.Context, imageURL string) ([]byte, error) {
	s.calls = append(s.calls, imageURL)
	return s.data, s.err
}

type stubBlobs struct {
	data  []byte
	calls []string
}

func (s *stubBlobs) GetImage(_ context.Context, blobURL string) ([]byte, error) {
	s.calls = append(s.calls, blobURL)
	return s.data, nil
}

func TestFetchImage_RoutesByHost(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		withBlobs bool
		wantBlob  bool
	}{
		{"plain http", "https://cdn.example.com/a.png", true, false},
		{"blob host with azure", "https://acct.blob.core.windows.net/prices/a.png", true, true},
		{"blob host without azure", "https://acct.blob.core.windows.net/prices/a.png", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{data: []byte("http")}
			blobs := &stubBlobs{data: []byte("blob")}

			repo := NewURLImageRepository(validation.NewURLValidator(), fetcher, nil)
			if tt.withBlobs {
				repo = NewURLImageRepository(validation.NewURLValidator(), fetcher, blobs)
			}

			data, err := repo.FetchImage(context.Background(), tt.url)
			if err != nil {
				t.Fatalf("FetchImage() error = %v", err)
			}

			want := "http"
			if tt.wantBlob {
				want = "blob"
			}
			if string(data) != want {
				t.Errorf("Expected data from %s source, got %q", want, data)
			}
		})
	}
}

func TestFetchImage_InvalidURLSkipsFetch(t *testing.T) {
	fetcher := &stubFetcher{}
	repo := NewURLImageRepository(validation.NewURLValidator(), fetcher, nil)

	_, err := repo.FetchImage(context.Background(), "ftp://example.com/a.png")
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("Fetcher should not be called, got %v", fetcher.calls)
	}
}

func TestFetchImage_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType apperrors.ErrorType
	}{
		{"network", errors.New("connection refused"), apperrors.ErrorTypeNetwork},
		{"deadline", context.DeadlineExceeded, apperrors.ErrorTypeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewURLImageRepository(validation.NewURLValidator(), &stubFetcher{err: tt.err}, nil)

			_, err := repo.FetchImage(context.Background(), "http://example.com/a.png")
			if !apperrors.IsType(err, tt.wantType) {
				t.Errorf("Expected %s error, got %v", tt.wantType, err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected cause to be preserved, got %v", err)
			}
		})
	}
}
