package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/vtryon/internal/api/storage"
)

func DecodeModelCursor(cursorStr string) (*storage.ModelCursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	decodedParts := strings.Split(string(decoded), "|")
	if len(decodedParts) != 2 || decodedParts[1] == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var createdAt int64
	_, err = fmt.Sscanf(decodedParts[0], "%d", &createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt in cursor: %w", err)
	}

	return &storage.ModelCursor{
		CreatedAt: time.Unix(0, createdAt).UTC(),
		ModelID:   decodedParts[1],
	}, nil
}

func EncodeModelCursor(cursor *storage.ModelCursor) string {
	cs := fmt.Sprintf("%d|%s", cursor.CreatedAt.UnixNano(), cursor.ModelID)
	return base64.RawURLEncoding.EncodeToString([]byte(cs))
}
