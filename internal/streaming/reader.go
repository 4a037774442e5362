// Package streaming читает аудиофайлы по HTTP порциями
package streaming

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBufferSize - размер буфера чтения по умолчанию
const DefaultBufferSize = 256 * 1024

// userAgent идентифицирует клиента перед хостингом саундтреков
const userAgent = "mysay/1.0"

// maxSkip - насколько далеко вперед перемотка дочитывает поток вместо нового запроса
const maxSkip = 64 * 1024

// ErrNotSeekable - сервер не поддерживает запросы диапазонов
var ErrNotSeekable = errors.New("перемотка не поддерживается сервером")

// StatusError - сервер ответил кодом, отличным от 200 и 206
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ошибка HTTP: %s", e.Status)
}

// Reader - буферизованный поток тела HTTP-ответа.
// Перемотка назад и далеко вперед открывает новый запрос с заголовком Range.
type Reader struct {
	ctx        context.Context
	url        string
	bufferSize int

	body   io.ReadCloser
	reader *bufio.Reader
	offset int64 // позиция следующего байта файла
	size   int64
	ranges bool
}

// client без общего таймаута: поток может читаться дольше любого разумного лимита
var client = &http.Client{
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       5 * time.Minute,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		ExpectContinueTimeout: time.Second,
	},
}

// NewReader открывает поток по URL. Отмена ctx прерывает чтение.
func NewReader(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	r := &Reader{ctx: ctx, url: url, bufferSize: bufferSize, size: -1}
	resp, err := r.request(0)
	if err != nil {
		return nil, err
	}

	r.ranges = resp.StatusCode == http.StatusPartialContent || resp.Header.Get("Accept-Ranges") == "bytes"
	r.size = resp.ContentLength
	if total, ok := totalSize(resp.Header.Get("Content-Range")); ok {
		r.size = total
	}
	r.use(resp.Body, 0)
	return r, nil
}

func (r *Reader) request(offset int64) (*http.Response, error) {
	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept-Encoding", "identity") // сжатие мешает потоковому декодированию
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	if offset > 0 && resp.StatusCode != http.StatusPartialContent {
		// сервер проигнорировал Range и отдает файл с начала
		resp.Body.Close()
		return nil, ErrNotSeekable
	}
	return resp, nil
}

func (r *Reader) use(body io.ReadCloser, offset int64) {
	r.body = body
	r.reader = bufio.NewReaderSize(body, r.bufferSize)
	r.offset = offset
}

// Read реализует io.Reader
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.offset += int64(n)
	return n, err
}

// Seek реализует io.Seeker
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = r.offset + offset
	case io.SeekEnd:
		if r.size < 0 {
			return r.offset, ErrNotSeekable
		}
		target = r.size + offset
	default:
		return r.offset, fmt.Errorf("неверный режим перемотки: %d", whence)
	}
	if target < 0 {
		return r.offset, fmt.Errorf("отрицательная позиция: %d", target)
	}

	if gap := target - r.offset; gap >= 0 && (gap <= maxSkip || !r.ranges) {
		n, err := r.reader.Discard(int(gap))
		r.offset += int64(n)
		if err != nil && !errors.Is(err, io.EOF) {
			return r.offset, err
		}
		return r.offset, nil
	}
	if !r.ranges {
		return r.offset, ErrNotSeekable
	}

	if r.size >= 0 && target >= r.size {
		r.body.Close()
		r.use(http.NoBody, target)
		return target, nil
	}

	resp, err := r.request(target)
	if err != nil {
		return r.offset, err
	}
	r.body.Close()
	r.use(resp.Body, target)
	return target, nil
}

// Size возвращает размер файла в байтах или -1, если сервер его не сообщил
func (r *Reader) Size() int64 {
	return r.size
}

// Close закрывает соединение
func (r *Reader) Close() error {
	return r.body.Close()
}

// totalSize разбирает полный размер из "bytes 0-99/1234"
func totalSize(contentRange string) (int64, bool) {
	_, total, ok := strings.Cut(contentRange, "/")
	if !ok || total == "*" {
		return 0, false
	}
	n, err := strconv.ParseInt(total, 10, 64)
	return n, err == nil
}
