// Package s3 хранит файлы саундтреков в Amazon S3 или совместимом хранилище
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ErrForeignURL - URL не относится к бакету
var ErrForeignURL = errors.New("URL не относится к хранилищу")

const contentType = "audio/mpeg"

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // Пусто - Amazon S3
	BucketName string
}

type objectUploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

type objectDeleter interface {
	DeleteObjectWithContext(ctx aws.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
}

// Uploader загружает и удаляет объекты бакета
type Uploader struct {
	uploader objectUploader
	deleter  objectDeleter
	config   Config
}

// NewUploader создает новый S3 uploader
func NewUploader(config Config) (*Uploader, error) {
	if config.BucketName == "" {
		return nil, errors.New("не задан бакет S3")
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return newUploader(config, s3manager.NewUploader(sess), s3.New(sess)), nil
}

func newUploader(config Config, uploader objectUploader, deleter objectDeleter) *Uploader {
	return &Uploader{
		uploader: uploader,
		deleter:  deleter,
		config:   config,
	}
}

// UploadFile загружает объект и возвращает его публичный URL
func (u *Uploader) UploadFile(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.config.BucketName),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}

	return u.PublicURL(key), nil
}

// DeleteFile удаляет объект из бакета
func (u *Uploader) DeleteFile(ctx context.Context, key string) error {
	_, err := u.deleter.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления файла из S3: %w", err)
	}
	return nil
}

// PublicURL строит URL объекта: path-style для своего endpoint,
// virtual-hosted для Amazon S3
func (u *Uploader) PublicURL(key string) string {
	escaped := escapeKey(key)
	if u.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.config.Endpoint, "/"), u.config.BucketName, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.config.BucketName, u.config.Region, escaped)
}

// KeyFromURL извлекает ключ объекта из URL, построенного для этого бакета
func (u *Uploader) KeyFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("некорректный URL: %w", err)
	}

	path := strings.TrimPrefix(parsed.EscapedPath(), "/")
	switch {
	case strings.HasPrefix(parsed.Host, u.config.BucketName+".s3."):
	case strings.HasPrefix(path, u.config.BucketName+"/"):
		path = strings.TrimPrefix(path, u.config.BucketName+"/")
	default:
		return "", fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
	}

	// ссылки из консоли S3 кодируют пробел знаком "+"
	key, err := url.PathUnescape(strings.ReplaceAll(path, "+", "%20"))
	if err != nil {
		return "", fmt.Errorf("некорректный путь в URL: %w", err)
	}
	if key == "" {
		return "", fmt.Errorf("%w: пустой ключ", ErrForeignURL)
	}
	return key, nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(url.PathEscape(p), "+", "%2B")
	}
	return strings.Join(parts, "/")
}
