package audio

import (
	"github.com/dhowden/tag"
	"github.com/pes18fan/pillow/game"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ExtractCoverArt reads the picture embedded in the tags of the file at
// path. A file without a picture, or one whose tags can't be read, gives an
// empty CoverArt. Failures are only logged.
func ExtractCoverArt(fs afero.Fs, path string) game.CoverArt {
	log := logrus.WithField("path", path)

	f, err := fs.Open(path)
	if err != nil {
		log.WithError(err).Warn("failed to open file for tags")
		return game.CoverArt{}
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		log.WithError(err).Warn("failed to read tags")
		return game.CoverArt{}
	}

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		log.Info("no artwork found")
		return game.CoverArt{}
	}

	log.WithField("mime", pic.MIMEType).Debug("read artwork")
	return game.CoverArt{
		MIMEType: pic.MIMEType,
		Data:     pic.Data,
	}
}
