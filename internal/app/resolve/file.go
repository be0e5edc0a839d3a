package resolve

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"
	mp3 "github.com/hajimehoshi/go-mp3"
	zlog "github.com/rs/zerolog/log"

	"github.com/kinokawa/discbox/internal/domain/media"
)

// FileResolver resolves local mp3 files. A directory locator expands to a
// playlist of the audio files it contains.
type FileResolver struct{}

// NewFileResolver creates a file resolver.
func NewFileResolver() FileResolver {
	return FileResolver{}
}

// Details implements Resolver. The name comes from the file's tags, falling
// back to the base filename; the duration comes from decoding the frame
// headers.
func (FileResolver) Details(ctx context.Context, it *media.Item) error {
	f, err := os.Open(it.URL)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "open %s", it.URL), ErrDetails)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		// Untagged files are still playable.
		zlog.Debug().Msgf("resolve: no tags in %s: %v", it.URL, err)
	} else {
		if it.Name == "" {
			it.Name = meta.Title()
		}
		if it.Artist == "" {
			it.Artist = meta.Artist()
		}
	}
	if it.Name == "" {
		it.Name = strings.TrimSuffix(filepath.Base(it.URL), filepath.Ext(it.URL))
	}

	if it.Duration == 0 {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return errors.Mark(errors.Wrap(err, "rewind"), ErrDetails)
		}
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "decode %s", it.URL), ErrDetails)
		}
		// Length is bytes of 16-bit stereo PCM at the decoder's sample rate.
		samples := dec.Length() / 4
		it.Duration = time.Duration(samples) * time.Second / time.Duration(dec.SampleRate())
	}

	return nil
}

// Stream implements Resolver.
func (FileResolver) Stream(ctx context.Context, it *media.Item) (io.ReadCloser, error) {
	f, err := os.Open(it.URL)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "open %s", it.URL), ErrStream)
	}
	return f, nil
}

// Playlist implements Resolver. The locator must be a directory; its mp3
// files become items in name order.
func (r FileResolver) Playlist(ctx context.Context, it *media.Item) ([]*media.Item, error) {
	entries, err := os.ReadDir(it.URL)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read dir %s", it.URL), ErrDetails)
	}

	var items []*media.Item
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".mp3") {
			continue
		}
		items = append(items, &media.Item{
			Kind:      media.KindFile,
			URL:       filepath.Join(it.URL, e.Name()),
			Requester: it.Requester,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].URL < items[j].URL })
	return items, nil
}
