package api

import (
	"encoding/json"
	"time"

	"reelcap/internal/overlay"
	"reelcap/internal/runstore"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeUnavailable   = "UNAVAILABLE"
	CodeInternal      = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// PlanRequest asks for a caption plan. Transcript uses the same JSON shape
// as transcript files. Zero frame dimensions fall back to 1080x1920.
type PlanRequest struct {
	Transcript json.RawMessage `json:"transcript"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Highlight  *bool           `json:"highlight_current_word,omitempty"`
	LineCount  *int            `json:"line_count,omitempty"`
}

type PlanResponse struct {
	Frame     overlay.Frame     `json:"frame"`
	TextWidth int               `json:"text_width"`
	Counts    overlay.Counts    `json:"counts"`
	Captions  []CaptionResponse `json:"captions"`
}

type CaptionResponse struct {
	Chunk          int      `json:"chunk"`
	Text           string   `json:"text"`
	Start          float64  `json:"start"`
	End            float64  `json:"end"`
	HighlightIndex int      `json:"highlight_index"`
	Y              int      `json:"y"`
	Height         int      `json:"height"`
	Lines          []string `json:"lines"`
}

type RunResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	TranscriptPath  string `json:"transcript_path"`
	VideoPath       string `json:"video_path"`
	AudioPath       string `json:"audio_path,omitempty"`
	ImagePath       string `json:"image_path,omitempty"`
	OutputPath      string `json:"output_path"`
	ChunkCount      int    `json:"chunk_count"`
	SubCaptionCount int    `json:"sub_caption_count"`
	OverlayCount    int    `json:"overlay_count"`
	Error           string `json:"error,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	CompletedAt     string `json:"completed_at,omitempty"`
}

type RunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

// PlanToResponse flattens a plan into per-sub-caption entries.
func PlanToResponse(plan overlay.Plan) PlanResponse {
	resp := PlanResponse{
		Frame:     plan.Frame,
		TextWidth: plan.FrameWidth,
		Counts:    plan.Counts(),
		Captions:  make([]CaptionResponse, 0, len(plan.SubCaptions)),
	}
	for _, sc := range plan.SubCaptions {
		lines := make([]string, 0, len(sc.Layout.Lines))
		for _, line := range sc.Layout.Lines {
			lines = append(lines, line.Text)
		}
		resp.Captions = append(resp.Captions, CaptionResponse{
			Chunk:          sc.Chunk,
			Text:           sc.Text,
			Start:          sc.Start,
			End:            sc.End,
			HighlightIndex: sc.HighlightIndex,
			Y:              sc.Y,
			Height:         sc.Layout.Height,
			Lines:          lines,
		})
	}
	return resp
}

// RunToResponse converts a stored run.
func RunToResponse(run *runstore.Run) RunResponse {
	resp := RunResponse{
		ID:              run.ID,
		Title:           run.Title,
		Status:          string(run.Status),
		TranscriptPath:  run.TranscriptPath,
		VideoPath:       run.VideoPath,
		AudioPath:       run.AudioPath,
		ImagePath:       run.ImagePath,
		OutputPath:      run.OutputPath,
		ChunkCount:      run.ChunkCount,
		SubCaptionCount: run.SubCaptionCount,
		OverlayCount:    run.OverlayCount,
		Error:           run.ErrorMessage,
		CreatedAt:       formatTime(run.CreatedAt),
		UpdatedAt:       formatTime(run.UpdatedAt),
		CompletedAt:     formatTime(run.CompletedAt),
	}
	return resp
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
