package webapp

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// serveAttachment 以附件形式返回内存中的文件内容（支持 Range / HEAD）。
func serveAttachment(w http.ResponseWriter, r *http.Request, name, contentType string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(content))
}
