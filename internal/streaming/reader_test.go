package streaming

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewReader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("Неверный User-Agent: %s", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("Range") != "bytes=0-" {
			t.Errorf("Неверный заголовок Range: %s", r.Header.Get("Range"))
		}
		w.Header().Set("Content-Length", "5")
		_, _ = w.Write([]byte("hello"))
	}))
	defer server.Close()

	reader, err := NewReader(context.Background(), server.URL, 0)
	if err != nil {
		t.Fatalf("Ошибка открытия потока: %v", err)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Ошибка чтения потока: %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("Ожидалось 'hello', получено %q", body)
	}
	if reader.Size() != 5 {
		t.Errorf("Ожидался размер 5, получено %d", reader.Size())
	}
}

func TestNewReaderStatusError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewReader(context.Background(), server.URL, 1024)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Ожидалась ошибка StatusError, получено: %v", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("Ожидался код 404, получено %d", statusErr.Code)
	}
}

func TestNewReaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewReader(ctx, "http://127.0.0.1:1/file.mp3", 1024); err == nil {
		t.Error("Ожидалась ошибка для отмененного контекста")
	}
}

// testContent - файл больше maxSkip, чтобы перемотка вперед тоже требовала запроса
func testContent() []byte {
	content := make([]byte, 3*maxSkip)
	for i := range content {
		content[i] = byte(i % 251)
	}
	return content
}

// rangeServer отдает файл с поддержкой Range и считает запросы
func rangeServer(content []byte, requests *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		http.ServeContent(w, r, "track.mp3", time.Time{}, bytes.NewReader(content))
	}))
}

func readAt(t *testing.T, reader *Reader, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	if _, err := io.ReadFull(reader, buf); err != nil {
		t.Fatalf("Ошибка чтения потока: %v", err)
	}
	return buf
}

func TestReaderSeek(t *testing.T) {
	content := testContent()
	var requests int32
	server := rangeServer(content, &requests)
	defer server.Close()

	reader, err := NewReader(context.Background(), server.URL, 1024)
	if err != nil {
		t.Fatalf("Ошибка открытия потока: %v", err)
	}
	defer reader.Close()

	if reader.Size() != int64(len(content)) {
		t.Errorf("Ожидался размер %d, получено %d", len(content), reader.Size())
	}

	tests := []struct {
		offset   int64
		whence   int
		expected int64
	}{
		{100, io.SeekStart, 100},
		{10, io.SeekCurrent, 120},
		{-50, io.SeekCurrent, 80},
		{2 * maxSkip, io.SeekStart, 2 * maxSkip},
		{-10, io.SeekEnd, int64(len(content)) - 10},
	}

	for _, test := range tests {
		pos, err := reader.Seek(test.offset, test.whence)
		if err != nil {
			t.Fatalf("Ошибка перемотки (%d, %d): %v", test.offset, test.whence, err)
		}
		if pos != test.expected {
			t.Errorf("Ожидалась позиция %d, получено %d", test.expected, pos)
		}
		got := readAt(t, reader, 10)
		if !bytes.Equal(got, content[pos:pos+10]) {
			t.Errorf("После перемотки на %d прочитаны неверные байты", pos)
		}
	}

	// короткие шаги вперед дочитываются, запросы нужны для открытия, шага назад и прыжка вперед
	if n := atomic.LoadInt32(&requests); n != 3 {
		t.Errorf("Ожидалось 3 запроса, получено %d", n)
	}

	if pos, err := reader.Seek(0, io.SeekEnd); err != nil || pos != int64(len(content)) {
		t.Errorf("Перемотка в конец: позиция %d, ошибка %v", pos, err)
	}
	if n, err := reader.Read(make([]byte, 1)); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("В конце файла ожидался EOF, получено %d/%v", n, err)
	}
}

func TestReaderSeekWithoutRanges(t *testing.T) {
	content := testContent()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(content)
	}))
	defer server.Close()

	reader, err := NewReader(context.Background(), server.URL, 1024)
	if err != nil {
		t.Fatalf("Ошибка открытия потока: %v", err)
	}
	defer reader.Close()

	if pos, err := reader.Seek(20, io.SeekStart); err != nil || pos != 20 {
		t.Fatalf("Перемотка вперед должна дочитывать поток: %d/%v", pos, err)
	}
	if got := readAt(t, reader, 5); !bytes.Equal(got, content[20:25]) {
		t.Error("После перемотки прочитаны неверные байты")
	}

	if _, err := reader.Seek(0, io.SeekStart); !errors.Is(err, ErrNotSeekable) {
		t.Errorf("Ожидалась ошибка ErrNotSeekable, получено: %v", err)
	}
}

func TestTotalSize(t *testing.T) {
	tests := map[string]int64{
		"bytes 0-99/1234": 1234,
		"bytes 5-9/10":    10,
	}
	for header, expected := range tests {
		if got, ok := totalSize(header); !ok || got != expected {
			t.Errorf("totalSize(%q) = %d; ожидалось %d", header, got, expected)
		}
	}

	for _, header := range []string{"", "bytes 0-99/*", "bytes 0-99/abc"} {
		if _, ok := totalSize(header); ok {
			t.Errorf("Для %q размер не должен определяться", header)
		}
	}
}
