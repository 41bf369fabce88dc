package api

import (
	"fmt"
)

type Endpoint struct {
	Name        string
	Path        string
	Method      string
	Params      []*Param
	Response    []*Value
	Description string
}

type Param struct {
	Name        string
	Value       string
	Description string
}

type Value struct {
	Type   string
	Params []*Param
}

var Endpoints = []*Endpoint{{
	Name:        "Nearby Parks",
	Path:        "/places/nearby",
	Method:      "GET",
	Description: "Parks inside a map viewport, in the order the places service ranked them",
	Params: []*Param{
		{
			Name:        "sw",
			Value:       "string",
			Description: "South-west corner as lat,lng",
		},
		{
			Name:        "ne",
			Value:       "string",
			Description: "North-east corner as lat,lng",
		},
	},
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "results",
					Value:       "array",
					Description: "[{'id', 'name', 'vicinity', 'location': {'lat', 'lng'}, 'icon'}]",
				},
				{
					Name:        "count",
					Value:       "number",
					Description: "Number of results",
				},
			},
		},
	},
}, {
	Name:        "Park Details",
	Path:        "/places/details",
	Method:      "GET",
	Description: "Details shown in a park's popup",
	Params: []*Param{
		{
			Name:        "id",
			Value:       "string",
			Description: "Place ID from a nearby result",
		},
	},
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{Name: "id", Value: "string", Description: "Place ID"},
				{Name: "name", Value: "string", Description: "Park name"},
				{Name: "url", Value: "string", Description: "Canonical page for the park"},
				{Name: "icon", Value: "string", Description: "Icon URL"},
				{Name: "vicinity", Value: "string", Description: "Short address"},
				{Name: "phone", Value: "string", Description: "Formatted phone number, omitted when unknown"},
				{Name: "rating", Value: "number", Description: "Rating 1.0-5.0, omitted when unknown"},
				{Name: "website", Value: "string", Description: "Website, omitted when unknown"},
			},
		},
	},
}, {
	Name:        "Address Suggestions",
	Path:        "/places/suggest",
	Method:      "GET",
	Description: "Address predictions restricted to the configured country",
	Params: []*Param{
		{
			Name:        "q",
			Value:       "string",
			Description: "Partial address",
		},
	},
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "predictions",
					Value:       "array",
					Description: "[{'place_id', 'description'}]",
				},
			},
		},
	},
}, {
	Name:        "Resolve Address",
	Path:        "/places/resolve",
	Method:      "GET",
	Description: "Location of a predicted address",
	Params: []*Param{
		{
			Name:        "id",
			Value:       "string",
			Description: "place_id from a suggestion",
		},
	},
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{Name: "id", Value: "string", Description: "Place ID"},
				{Name: "name", Value: "string", Description: "Address"},
				{Name: "location", Value: "object", Description: "{'lat', 'lng'}"},
			},
		},
	},
}, {
	Name:        "Status",
	Path:        "/status",
	Method:      "GET",
	Description: "Service health, configuration and recent upstream calls",
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{Name: "healthy", Value: "bool", Description: "All checks passed"},
				{Name: "services", Value: "array", Description: "Result of each check"},
				{Name: "calls", Value: "array", Description: "Recent places API calls"},
			},
		},
	},
}}

// Markdown renders the API documentation
func Markdown() string {
	var data string

	data += "# API\n\n"
	data += "All endpoints return JSON. Errors are returned as `{\"error\": \"message\"}` "
	data += "with a matching HTTP status.\n\n"
	data += "| Status | Meaning |\n"
	data += "| ------ | ------- |\n"
	data += "| 400 | Bad coordinates or missing id |\n"
	data += "| 404 | Unknown place |\n"
	data += "| 429 | Upstream quota exhausted |\n"
	data += "| 502 | Upstream failure |\n"
	data += "| 503 | Places API key not configured |\n"
	data += "| 504 | Upstream timeout |\n\n"
	data += "---\n\n"
	data += "## Endpoints\n\n"

	for _, endpoint := range Endpoints {
		data += "## " + endpoint.Name
		data += fmt.Sprintln()
		data += fmt.Sprintln()
		data += fmt.Sprintln(endpoint.Description)
		data += fmt.Sprintln()
		data += fmt.Sprintf("```%s %s```", endpoint.Method, endpoint.Path)
		data += fmt.Sprintln()
		data += fmt.Sprintln()

		if endpoint.Params != nil {
			data += fmt.Sprintln("#### Query")
			data += fmt.Sprintln()
			data += "| Field | Type | Description |"
			data += fmt.Sprintln()
			data += "| ----- | ---- | ----------- |"
			data += fmt.Sprintln()

			for _, param := range endpoint.Params {
				data += fmt.Sprintf("|	%s	|	%s	|	%s	|", param.Name, param.Value, param.Description)
				data += fmt.Sprintln()
			}
			data += fmt.Sprintln()
		}

		if endpoint.Response != nil {
			data += fmt.Sprintln("#### Response")
			data += fmt.Sprintln()
			for _, resp := range endpoint.Response {
				data += fmt.Sprintf("Format: %s", resp.Type)
				data += fmt.Sprintln()
				data += fmt.Sprintln()
				data += "| Field | Type | Description |"
				data += fmt.Sprintln()
				data += "| ----- | ---- | ----------- |"
				data += fmt.Sprintln()
				for _, param := range resp.Params {
					data += fmt.Sprintf("|	%s	|	%s	|	%s	|", param.Name, param.Value, param.Description)
					data += fmt.Sprintln()
				}
			}
			data += fmt.Sprintln()
		}
	}

	data += "## Page protocol\n\n"
	data += "The locator page talks to `/ws` over a websocket. The server sends JSON arrays of "
	data += "render ops (`{\"op\": \"marker.add\", \"index\": 0, ...}`); the page sends events "
	data += "`viewport`, `place_changed`, `marker_click`, `entry_click` and `entry_hover`. "
	data += "`marker.add` and `dom.append` carry a `session` tag. Clicks and hovers send it back, "
	data += "and events tagged with a replaced session are ignored.\n\n"
	data += "## MCP\n\n"
	data += "The endpoints above are also exposed as Model Context Protocol tools at `/mcp`.\n"

	return data
}
