package config

import (
	"os"
	"path/filepath"
)

// Env holds everything that must come from the environment: secrets,
// external service locations and on-disk paths. Tuning knobs live in
// constants.go.
type Env struct {
	GroqAPIKey   string
	GroqModel    string
	GoogleAPIKey string

	EmbeddingModel string
	CollectionName string

	StoragePDFDir string

	TesseractCmd string
	PdftoppmCmd  string
	OCRLang      string
}

func LoadEnv() Env {
	return Env{
		GroqAPIKey:     os.Getenv("GROQ_API_KEY"),
		GroqModel:      getEnvOr("GROQ_MODEL", DefaultGroqModel),
		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		EmbeddingModel: getEnvOr("EMBEDDING_MODEL", DefaultEmbeddingModel),
		CollectionName: getEnvOr("COLLECTION_NAME", "edu_books"),
		StoragePDFDir:  getEnvOr("STORAGE_PDF_DIR", filepath.Join("storage", "pdfs")),
		TesseractCmd:   getEnvOr("TESSERACT_CMD", "tesseract"),
		PdftoppmCmd:    getEnvOr("PDFTOPPM_CMD", "pdftoppm"),
		OCRLang:        getEnvOr("OCR_LANG", DefaultOCRLang),
	}
}

func getEnvOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
