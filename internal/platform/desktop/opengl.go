package desktop

import "bytes"

var openGLFailureMarkers = [][]byte{
	[]byte("WGL: The driver does not appear to support OpenGL"),
	[]byte("APIUnavailable: WGL"),
	[]byte("GLX: No GLXFBConfigs returned"),
	[]byte("GLX: GLX version 1.3 is required"),
	[]byte("window creation error"),
}

// IsOpenGLFailureLog reports whether a log line from the GUI toolkit means
// no usable OpenGL context could be created.
func IsOpenGLFailureLog(p []byte) bool {
	if len(p) == 0 {
		return false
	}
	for _, m := range openGLFailureMarkers {
		if bytes.Contains(p, m) {
			return true
		}
	}
	return false
}
