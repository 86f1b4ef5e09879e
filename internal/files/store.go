package files

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/drkae456/highScalableAWSArchitecture/internal/aws"
)

// ErrBucketNotConfigured indicates the service was started without an
// object-store bucket; uploads cannot be served.
var ErrBucketNotConfigured = errors.New("s3 bucket not configured")

// keyPrefix namespaces every uploaded object.
const keyPrefix = "uploads/"

// Store writes upload payloads to an S3 bucket.
type Store struct {
	client aws.S3API
	bucket string
	idFunc func() string
}

// NewStore returns a Store bound to a bucket. An empty bucket name is
// allowed at construction; Upload reports it per call.
func NewStore(client aws.S3API, bucket string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		idFunc: uuid.NewString,
	}
}

// Bucket returns the configured bucket name.
func (s *Store) Bucket() string { return s.bucket }

// Upload stores the payload as a JSON object under a generated key and
// returns that key. The optional "filename" field of the payload becomes a
// readable suffix of the key.
func (s *Store) Upload(ctx context.Context, payload map[string]interface{}) (string, error) {
	if s.bucket == "" {
		return "", ErrBucketNotConfigured
	}

	name, _ := payload["filename"].(string)
	if name == "" {
		name = "file"
	}
	key := fmt.Sprintf("%s%s-%s", keyPrefix, s.idFunc(), name)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: awsString("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

func awsString(s string) *string { return &s }
