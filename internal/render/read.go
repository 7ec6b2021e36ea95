package render

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
)

const (
	readInitialInterval = 20 * time.Millisecond
	readMaxInterval     = 200 * time.Millisecond
	readMaxRetries      = 3
)

// readDocument reads path, retrying briefly while it is missing. Editors that
// save by writing a temporary file and renaming it over the original leave a
// short window in which the document does not exist.
func readDocument(ctx context.Context, path string, maxSize int) ([]byte, error) {
	var data []byte

	operation := func() error {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if !info.Mode().IsRegular() {
			return backoff.Permanent(fmt.Errorf("%s is not a file", path))
		}
		if maxSize > 0 && info.Size() > int64(maxSize) {
			return backoff.Permanent(fmt.Errorf("%s is %s, larger than the %s limit",
				path, humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(maxSize))))
		}

		data, err = os.ReadFile(path) // #nosec G304 - the previewed document
		if err != nil && !os.IsNotExist(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = readInitialInterval
	b.MaxInterval = readMaxInterval

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, readMaxRetries), ctx)); err != nil {
		return nil, err
	}
	return data, nil
}
