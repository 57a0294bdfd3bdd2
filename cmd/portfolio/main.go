package main

import (
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Jaysinghgautam/jay-portfolio/internal/content"
	"github.com/Jaysinghgautam/jay-portfolio/internal/identity"
	"github.com/Jaysinghgautam/jay-portfolio/internal/metrics"
	"github.com/Jaysinghgautam/jay-portfolio/internal/server"
	"github.com/Jaysinghgautam/jay-portfolio/internal/typing"
)

func main() {
	contentPath := envOr("CONTENT_PATH", "content/site.yaml")
	site, err := content.Load(contentPath)
	if err != nil {
		log.Fatal("failed to load site content: ", err)
	}
	store := content.NewStore(site)

	watcher, err := content.Watch(contentPath, store)
	if err != nil {
		log.Printf("content hot reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	var visits *metrics.Store
	if dsn := envOr("METRICS_DB", "portfolio.db"); dsn != "off" {
		visits, err = metrics.Open(dsn)
		if err != nil {
			log.Fatal("failed to open metrics db: ", err)
		}
		defer visits.Close()

		go func() {
			if n, err := visits.CleanupOld(); err != nil {
				log.Printf("metrics retention cleanup failed: %v", err)
			} else if n > 0 {
				log.Printf("metrics retention cleanup removed %d old visits", n)
			}
		}()
	}

	r := server.New(server.Config{
		Content:       store,
		Issuer:        identity.NewIssuer(os.Getenv("IDENTITY_SECRET")),
		Metrics:       visits,
		Timings:       typing.DefaultTimings(),
		TemplatesGlob: "templates/*",
		StaticDir:     "./static",
		ImagesDir:     "./images",
	})

	port := envOr("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
