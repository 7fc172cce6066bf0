package storage

import (
	"crawler-server/internal/domain"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

const (
	MagicHeader string = `CDSV` // 4 байта
	Version1    uint32 = 1
)

// SaveFileHeader - точное представление заголовка файла сохранения.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type SaveFileHeader struct {
	Magic        [4]byte // 4 байта
	Version      uint32  // 4 байта
	SaveID       int64   // 8 байт
	CreatedAt    int64   // 8 байт, unix nano
	UpdatedAt    int64   // 8 байт, unix nano
	DungeonLevel int32   // 4 байта
	PosX         int32   // 4 байта
	PosZ         int32   // 4 байта
	Facing       uint8   // 1 байт
	_            [3]byte // выравнивание
	BodyLen      uint32  // 4 байта, длина JSON-тела
}

func writeBinary(w io.Writer, snap *domain.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if uint64(len(body)) > math.MaxUint32 {
		return fmt.Errorf("snapshot too large: %d", len(body))
	}

	// 1. Подготавливаем и пишем заголовок
	header := SaveFileHeader{
		Version:      Version1,
		SaveID:       snap.Save.ID,
		CreatedAt:    snap.Save.CreatedAt.UnixNano(),
		UpdatedAt:    snap.Save.UpdatedAt.UnixNano(),
		DungeonLevel: int32(snap.Save.DungeonLevel),
		PosX:         int32(snap.Save.Player.Position.X),
		PosZ:         int32(snap.Save.Player.Position.Z),
		Facing:       uint8(snap.Save.Player.Facing),
		BodyLen:      uint32(len(body)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Пишем тело
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}
