// Package main implements a standalone seed script that populates the
// storefront catalog with realistic motorcycle gear via the running HTTP API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	PriceCents  int64  `json:"price_cents"`
	Status      string `json:"status"`
}

var products = []product{
	{"Carbon Full-Face Helmet", "Lightweight carbon shell, Pinlock-ready visor.", "helmets", "Vortex", 44900, "published"},
	{"Modular Touring Helmet", "Flip-up chin bar with integrated sun visor.", "helmets", "Roadcrest", 31900, "published"},
	{"Adventure Touring Jacket", "Laminated shell with removable thermal liner.", "jackets", "Ridgeline", 32900, "published"},
	{"Mesh Summer Jacket", "Full mesh panels with CE level 2 armor.", "jackets", "Ridgeline", 18900, "published"},
	{"Gauntlet Racing Gloves", "Kangaroo palm, carbon knuckle protection.", "gloves", "Vortex", 8900, "published"},
	{"Waterproof Winter Gloves", "Hipora membrane, visor wiper on left index.", "gloves", "Roadcrest", 6900, "published"},
	{"Kevlar Riding Jeans", "Single-layer aramid denim, slim fit.", "pants", "Ridgeline", 18900, "published"},
	{"Touring Boots", "Gore-Tex lining, shift pad reinforcement.", "boots", "Trailhead", 25900, "published"},
	{"Short Urban Boots", "CE certified ankle protection in a casual cut.", "boots", "Trailhead", 14900, "published"},
	{"Chain Lube 500ml", "PTFE dry lube for O-ring and X-ring chains.", "maintenance", "Sprocketeer", 1490, "published"},
	{"Prototype Airbag Vest", "Electronic airbag vest, pending certification.", "protection", "Vortex", 59900, "draft"},
}

func httpPost(url string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return result, nil
}

func main() {
	baseURL := getEnv("STOREFRONT_URL", "http://localhost:8080")
	endpoint := baseURL + "/api/v1/catalog/products"

	created := 0
	for _, p := range products {
		if _, err := httpPost(endpoint, p); err != nil {
			log.Printf("seed %q: %v", p.Name, err)
			continue
		}
		created++
	}

	log.Printf("seeded %d/%d products into %s", created, len(products), endpoint)
}
