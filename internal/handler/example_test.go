package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/brieflab/brief-analyzer/internal/analyzer"
	"github.com/brieflab/brief-analyzer/internal/auth"
	"github.com/brieflab/brief-analyzer/internal/basecamp"
	"github.com/brieflab/brief-analyzer/internal/config"
	"github.com/brieflab/brief-analyzer/internal/middleware"
	"github.com/brieflab/brief-analyzer/internal/service"
	"github.com/brieflab/brief-analyzer/internal/storage/memory"
)

// Example demonstrates the stage 1 flow against the heuristic analyzer.
func Example() {
	cfg := &config.Config{APITimeout: 5, JWTSecret: "example-secret", MaxUploadBytes: 16 << 20}

	svc := service.NewBriefService(memory.NewStorage(), analyzer.New(cfg), basecamp.NewClient(cfg))
	authMW := middleware.NewAuthMiddleware(auth.NewJWTService(cfg.JWTSecret))

	h := NewHandler(svc, nil, nil, authMW, cfg.MaxUploadBytes)
	server := httptest.NewServer(h.RegisterRoutes())
	defer server.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "brief.txt")
	part.Write([]byte("Project Name: Spring Launch\nBrand: Acme"))
	writer.WriteField("content_writer_id", "4958120")
	writer.Close()

	resp, err := http.Post(server.URL+"/upload", writer.FormDataContentType(), body)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer resp.Body.Close()

	var result UploadResponse
	json.NewDecoder(resp.Body).Decode(&result)

	fmt.Println(resp.StatusCode)
	fmt.Println(result.Stage)
	fmt.Println(result.ProjectBrief.ProjectName)

	// Output:
	// 200
	// content_writer_report_generated
	// Spring Launch
}
