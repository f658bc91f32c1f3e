package stream

import (
	"context"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Opener opens a song's resolved transport string into an InputStream,
// dispatching on the song's is_file predicate.
type Opener interface {
	Open(ctx context.Context, song Song, transport string) (InputStream, error)
}

// DefaultOpener is the production Opener: local files via os.Open, URLs
// via a retrying HTTP GET.
type DefaultOpener struct {
	HTTPClient *retryablehttp.Client
	Pacer      *rate.Limiter
	Debug      bool
}

func (o *DefaultOpener) Open(ctx context.Context, song Song, transport string) (InputStream, error) {
	if song.IsFile() {
		return OpenFile(transport)
	}
	return OpenURL(ctx, transport, o.HTTPClient, o.Pacer, o.Debug)
}
