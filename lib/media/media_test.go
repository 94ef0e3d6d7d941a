package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectUrlRoundTrip(t *testing.T) {
	i := impl{bucket: "labstock", publicBaseUrl: "http://127.0.0.1:9000"}
	url := i.objectUrl("invoices/abc.jpg")
	require.Equal(t, "http://127.0.0.1:9000/labstock/invoices/abc.jpg", url)

	key, ok := i.objectKey(url)
	require.True(t, ok)
	require.Equal(t, "invoices/abc.jpg", key)

	_, ok = i.objectKey("http://other.host/labstock/invoices/abc.jpg")
	require.False(t, ok)
}

func TestUploadWithoutClient(t *testing.T) {
	i := NewInstance(nil, "labstock", "http://127.0.0.1:9000/")
	_, err := i.Upload(context.Background(), InvoiceFolder, "a.jpg", "image/jpeg", strings.NewReader("x"), 1)
	require.Error(t, err)
	require.Error(t, i.Delete(context.Background(), "http://127.0.0.1:9000/labstock/a.jpg"))
}
