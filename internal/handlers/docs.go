package handlers

import (
	"encoding/json"
	"net/http"
)

func jsonContent(schema interface{}) map[string]interface{} {
	return map[string]interface{}{
		"application/json": map[string]interface{}{"schema": schema},
	}
}

func ref(name string) map[string]string {
	return map[string]string{"$ref": "#/components/schemas/" + name}
}

// OpenAPISpec returns the OpenAPI 3.0 specification for the Samarth API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Samarth Q&A API",
			"description": "Natural-language questions over Indian crop production and rainfall data, answered with generated SQL and cited sources",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/ask": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Answer a question",
					"description": "Generate SQL for the question with the local model, run it and return rows with citations",
					"requestBody": map[string]interface{}{
						"required": true,
						"content":  jsonContent(ref("AskRequest")),
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Question cycle finished; inspect state for the outcome",
							"content":     jsonContent(ref("Answer")),
						},
						"400": map[string]interface{}{
							"description": "Empty question or malformed body",
							"content":     jsonContent(ref("Error")),
						},
					},
				},
			},
			"/api/samples": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Sample questions",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Suggested questions",
							"content": jsonContent(map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"questions": map[string]interface{}{
										"type":  "array",
										"items": map[string]string{"type": "string"},
									},
								},
							}),
						},
					},
				},
			},
			"/api/provenance": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Snapshot provenance",
					"description": "Parsed source sidecars of the crop and rainfall snapshots",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "One entry per citation",
							"content": jsonContent(map[string]interface{}{
								"type":  "array",
								"items": ref("Provenance"),
							}),
						},
					},
				},
			},
			"/api/catalog": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Table catalog",
					"description": "Row counts and year spans of the loaded tables plus the canonical state names",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Catalog of the analytical tables",
							"content":     jsonContent(ref("Catalog")),
						},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check that the API and analytical engine are up",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "API is healthy"},
						"503": map[string]interface{}{"description": "Analytical engine unavailable"},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"AskRequest": map[string]interface{}{
					"type":     "object",
					"required": []string{"question"},
					"properties": map[string]interface{}{
						"question": map[string]string{"type": "string"},
					},
				},
				"Answer": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"request_id": map[string]string{"type": "string", "format": "uuid"},
						"question":   map[string]string{"type": "string"},
						"sql":        map[string]string{"type": "string"},
						"state": map[string]interface{}{
							"type": "string",
							"enum": []string{"model_error", "parse_execute_error", "result_ready", "presented"},
						},
						"result": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"columns": map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
								"rows":    map[string]interface{}{"type": "array", "items": map[string]string{"type": "array"}},
							},
						},
						"fallback":    map[string]string{"type": "boolean"},
						"cached":      map[string]string{"type": "boolean"},
						"error":       map[string]string{"type": "string"},
						"duration_ns": map[string]string{"type": "integer"},
						"citations": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"label": map[string]string{"type": "string"},
									"path":  map[string]string{"type": "string"},
								},
							},
						},
					},
				},
				"Provenance": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"label":     map[string]string{"type": "string"},
						"path":      map[string]string{"type": "string"},
						"available": map[string]string{"type": "boolean"},
						"source": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"resource_id": map[string]string{"type": "string"},
								"row_count":   map[string]string{"type": "integer"},
								"fetched_at":  map[string]string{"type": "string"},
								"method":      map[string]string{"type": "string"},
							},
						},
					},
				},
				"Catalog": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"tables": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"name":     map[string]string{"type": "string"},
									"rows":     map[string]string{"type": "integer"},
									"min_year": map[string]string{"type": "integer"},
									"max_year": map[string]string{"type": "integer"},
								},
							},
						},
						"states": map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
					},
				},
				"Error": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"error":   map[string]string{"type": "string"},
						"message": map[string]string{"type": "string"},
						"code":    map[string]string{"type": "integer"},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
