package download

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ytget/ytweb/internal/platform"
)

// Delivery streams a fetched file to a client. Closing it removes the server
// copy; the file exists on disk only until delivery completes.
type Delivery struct {
	file        *os.File
	path        string
	Name        string
	ContentType string
	Size        int64

	onClose   func(err error)
	closeOnce sync.Once
	closeErr  error
}

// OpenDelivery opens path for streaming. container picks the Content-Type and
// falls back to the file extension.
func OpenDelivery(path, container string, onClose func(err error)) (*Delivery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fetched file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat fetched file: %w", err)
	}

	ext := container
	if ext == "" {
		ext = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	return &Delivery{
		file:        f,
		path:        path,
		Name:        filepath.Base(path),
		ContentType: platform.MimeTypeForExt(ext),
		Size:        st.Size(),
		onClose:     onClose,
	}, nil
}

// Read implements io.Reader
func (d *Delivery) Read(p []byte) (int, error) {
	return d.file.Read(p)
}

// Close closes and deletes the file. Safe to call more than once.
func (d *Delivery) Close() error {
	d.closeOnce.Do(func() {
		err := d.file.Close()
		if rmErr := os.Remove(d.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = fmt.Errorf("remove delivered file: %w", rmErr)
		}
		d.closeErr = err
		if d.onClose != nil {
			d.onClose(err)
		}
	})
	return d.closeErr
}

// ContentDisposition returns the attachment header value for the file name
func (d *Delivery) ContentDisposition() string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": d.Name}); v != "" {
		return v
	}
	return "attachment"
}
