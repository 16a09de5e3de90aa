package runstore

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id             string
		title          sql.NullString
		transcriptPath sql.NullString
		videoPath      sql.NullString
		audioPath      sql.NullString
		imagePath      sql.NullString
		outputPath     sql.NullString
		statusStr      string
		chunkCount     sql.NullInt64
		subCount       sql.NullInt64
		overlayCount   sql.NullInt64
		errorMessage   sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
		completedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&transcriptPath,
		&videoPath,
		&audioPath,
		&imagePath,
		&outputPath,
		&statusStr,
		&chunkCount,
		&subCount,
		&overlayCount,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&completedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:              id,
		Title:           title.String,
		TranscriptPath:  transcriptPath.String,
		VideoPath:       videoPath.String,
		AudioPath:       audioPath.String,
		ImagePath:       imagePath.String,
		OutputPath:      outputPath.String,
		Status:          Status(statusStr),
		ChunkCount:      int(chunkCount.Int64),
		SubCaptionCount: int(subCount.Int64),
		OverlayCount:    int(overlayCount.Int64),
		ErrorMessage:    errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		run.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		run.UpdatedAt = updated
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			run.CompletedAt = completed
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout keeps a fixed fraction width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func nowString() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
