package storage

import (
	"crawler-server/internal/domain"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

func readHeader(r io.Reader) (SaveFileHeader, error) {
	var header SaveFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return header, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return header, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return header, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	return header, nil
}

func readBinary(r io.Reader) (*domain.Snapshot, error) {
	// 1. Читаем заголовок целиком
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	// 2. Читаем тело
	body := make([]byte, header.BodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	// Заголовок - источник истины для метаданных слота
	snap.Save.ID = header.SaveID
	snap.Save.CreatedAt = time.Unix(0, header.CreatedAt).UTC()
	snap.Save.UpdatedAt = time.Unix(0, header.UpdatedAt).UTC()
	snap.Save.DungeonLevel = int(header.DungeonLevel)
	snap.Save.Player = domain.NewPlayerState(
		domain.Position{X: int(header.PosX), Z: int(header.PosZ)},
		domain.Facing(header.Facing),
	)
	return &snap, nil
}
