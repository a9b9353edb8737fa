package imageprocessor

import (
	"github.com/tiMaxal/pairs3d/logging"
)

// PHashOracle computes perceptual hash distances between image files. Hashes
// are cached per path for the lifetime of the oracle; cache one oracle per
// sorting run only, since files must not change between index time and
// comparison time within a run.
type PHashOracle struct {
	hashes map[string]string
}

// NewPHashOracle returns an oracle with an empty hash cache.
func NewPHashOracle() *PHashOracle {
	return &PHashOracle{hashes: make(map[string]string)}
}

// Distance loads both images on first use and returns the Hamming distance
// between their perceptual hashes. Decode or hash failures come back as an
// error; callers treat that as "not similar".
func (o *PHashOracle) Distance(path1, path2 string) (int, error) {
	hash1, err := o.hashFor(path1)
	if err != nil {
		return 0, err
	}
	hash2, err := o.hashFor(path2)
	if err != nil {
		return 0, err
	}
	return CalculateHammingDistance(hash1, hash2), nil
}

func (o *PHashOracle) hashFor(path string) (string, error) {
	if hash, ok := o.hashes[path]; ok {
		return hash, nil
	}

	img, err := LoadImage(path)
	if err != nil {
		logging.LogImageProcessed(path, false, err.Error())
		return "", err
	}
	defer img.Close()

	hash, err := ComputePerceptualHash(img)
	if err != nil {
		logging.LogImageProcessed(path, false, err.Error())
		return "", err
	}

	logging.LogImageProcessed(path, true, "")
	o.hashes[path] = hash
	return hash, nil
}
