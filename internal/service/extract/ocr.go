package extract

import "github.com/otiai10/gosseract/v2"

// tesseractOCR shells the recognition out to the system tesseract
// installation through gosseract.
type tesseractOCR struct{}

func (tesseractOCR) Text(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return "", err
	}
	return client.Text()
}
