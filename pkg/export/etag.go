package export

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/zeebo/xxh3"
)

// ETag вычисляет строгий ETag представления: xxh3 от версии данных,
// состояния и ключей видимых строк. version меняется при любом
// изменении входного набора (например, время последнего обновления).
func ETag[R datatable.Row](view datatable.View[R], version string) string {
	h := xxh3.New()
	h.WriteString(version)
	h.WriteString("\x00")
	h.WriteString(view.State.Encode())
	h.WriteString("\x00")
	h.WriteString(strconv.Itoa(view.TotalItems))
	for _, key := range view.Keys {
		h.WriteString("\x00")
		h.WriteString(key)
	}

	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], h.Sum64())
	return fmt.Sprintf(`"%x"`, sum)
}
