package unstructured

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"tracerag/src/infrastructure/log"
)

// UnstructuredService talks to an unstructured-io API instance and
// converts binary documents into plain-text elements.
type UnstructuredService struct {
	baseURL string
}

type UnstructuredElement struct {
	Type      string   `json:"type"`
	Text      string   `json:"text"`
	ElementID string   `json:"element_id"`
	Metadata  Metadata `json:"metadata"`
}

type Metadata struct {
	Filename    string      `json:"filename,omitempty"`
	Filetype    string      `json:"filetype,omitempty"`
	PageNumber  int         `json:"page_number,omitempty"`
	Coordinates Coordinates `json:"coordinates,omitempty"`
	TableHTML   string      `json:"table_html,omitempty"`
}

type Coordinates struct {
	Points [][]float64 `json:"points"`
	System string      `json:"system"`
}

func NewUnstructuredService(baseURL string) *UnstructuredService {
	return &UnstructuredService{
		baseURL: baseURL,
	}
}

// ConvertPDFToText sends the document to the extraction API and returns
// its text elements in page order.
func (s *UnstructuredService) ConvertPDFToText(filename string, content []byte) ([]UnstructuredElement, error) {
	var requestBody bytes.Buffer
	multipartWriter := multipart.NewWriter(&requestBody)

	fileWriter, err := multipartWriter.CreateFormFile("files", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %v", err)
	}

	if _, err = io.Copy(fileWriter, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to write file content: %v", err)
	}

	if err := multipartWriter.WriteField("output_format", "application/json"); err != nil {
		return nil, fmt.Errorf("failed to write output format: %v", err)
	}

	multipartWriter.Close()

	httpReq, err := http.NewRequest("POST", s.baseURL+"/general/v0/general", &requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", multipartWriter.FormDataContentType())

	client := &http.Client{}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error(fmt.Errorf("conversion service error"), "failed to convert document",
			"status", resp.Status, "body", string(body))
		return nil, fmt.Errorf("conversion service error: %s", resp.Status)
	}

	var elements []UnstructuredElement
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	return elements, nil
}
