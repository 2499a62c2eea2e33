// Package espeak is the local speech engine of last resort. It links
// against libespeak-ng and plays synchronously on the default device.
package espeak

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

static int
espeak_say(const char *text, const char *voice, int rate)
{
	if (!text)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	if (voice && espeak_SetVoiceByName(voice) != EE_OK)
	{
		espeak_VOICE specs;
		memset(&specs, 0, sizeof(specs));
		specs.languages = voice;
		espeak_SetVoiceByProperties(&specs);
	}

	if (rate > 0)
	{ espeak_SetParameter(espeakRATE, rate, 0); }

	espeak_ERROR rc = espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0,
		espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return rc == EE_OK ? 0 : -3;
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

const (
	DefaultVoice = "en"
	DefaultRate  = 185
)

// Engine speaks with espeak-ng. The library keeps global state, so calls
// are serialized.
type Engine struct {
	Voice string
	Rate  int

	mu sync.Mutex
}

func New() *Engine {
	return &Engine{Voice: DefaultVoice, Rate: DefaultRate}
}

func (e *Engine) Name() string { return "espeak" }

func (e *Engine) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	var cvoice *C.char
	if e.Voice != "" {
		cvoice = C.CString(e.Voice)
		defer C.free(unsafe.Pointer(cvoice))
	}

	rc := C.espeak_say(ctext, cvoice, C.int(e.Rate))
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}
