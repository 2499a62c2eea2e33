package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"sucu/internal/aliases"
	"sucu/internal/audio"
	"sucu/internal/command"
	"sucu/internal/dialogue"
	"sucu/internal/hub"
	"sucu/internal/launch"
	"sucu/internal/listen"
	"sucu/internal/notify"
	"sucu/internal/proxy"
	"sucu/internal/tts"
	"sucu/internal/tts/espeak"
	"sucu/pkg/audioconv"
	"sucu/pkg/stt"
)

const (
	envElevenLabsKey   = "ELEVENLABS_API_KEY"
	envElevenLabsVoice = "ELEVENLABS_VOICE_ID"
	envOpenAIKey       = "OPENAI_API_KEY"
	envWakePhrases     = "SUCU_WAKE_PHRASES"

	calibration = time.Second
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	logFile := cli.String("log-file", "", "Also write JSON logs to this rotating file")
	aliasFile := cli.StringP("aliases", "a", aliases.DefaultPath(), "Alias file path")
	modelPath := cli.StringP("model", "m", "models/ggml-base.en.bin", "Whisper model path")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address for cloud voices")
	hubURL := cli.StringP("hub", "u", "", "Websocket hub url, e.g. ws://localhost:8092")
	wake := cli.StringSliceP("wake", "w", nil, "Wake phrases (overrides "+envWakePhrases+")")
	noAIVoice := cli.Bool("no-ai-voice", false, "Speak with espeak only")
	dumpDir := cli.String("dump-dir", "", "Write every capture as WAV into this directory")
	chimePath := cli.String("chime", "beep.mp3", "Mp3 played on wake; empty disables")
	replay := cli.StringSlice("replay", nil, "Audio files to use instead of the microphone")
	cli.Parse()

	closer := setupLogging(*logLevel, *logFile)
	defer closer.Close()

	log.Info("Booting up")

	if err := godotenv.Load(*envFile); err != nil {
		log.Debug("No env file", "path", *envFile, "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient, err := proxy.NewClient(*proxyAddr, 0)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
		os.Exit(1)
	}

	player := audio.NewPlayer()
	speaker := tts.NewChain(voices(httpClient, player, *noAIVoice)...)
	log.Debug("Loaded voices", "chain", speaker.Names())

	var rec listen.Recorder
	if len(*replay) > 0 {
		r := audio.NewReplay(*replay)
		r.Drained = stop
		rec = r
		log.Info("Replaying instead of microphone", "files", len(*replay))
	} else {
		mic := audio.NewRecorder()
		if err := mic.Init(); err != nil {
			log.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer mic.Close()

		if err := mic.Calibrate(calibration); err != nil {
			log.Error("Failed to calibrate microphone", "err", err)
			os.Exit(1)
		}
		rec = mic
	}

	log.Debug("Loaded recorder")

	whisper, err := stt.NewTranscriber(*modelPath, stt.Options{Language: "en"})
	if err != nil {
		log.Error("Failed to init whisper", "model", *modelPath, "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	log.Debug("Loaded whisper")

	microphone := listen.NewMicrophone(rec, whisper)
	if *dumpDir != "" {
		d, err := audioconv.NewDumper(*dumpDir)
		if err != nil {
			log.Error("Failed to create dump dir", "dir", *dumpDir, "err", err)
			os.Exit(1)
		}
		microphone.Dump = d.Dump
	}

	store := aliases.Open(*aliasFile)
	log.Debug("Loaded aliases", "path", store.Path())

	cfg := command.Config{
		Speaker:  speaker,
		Listener: microphone,
		Aliases:  store,
		Launcher: launch.NewSystem(),
	}

	if *hubURL != "" {
		bus, err := hub.NewBus(*hubURL)
		if err != nil {
			log.Warn("Hub unavailable, continuing without it", "url", *hubURL, "err", err)
		} else {
			defer bus.Close()
			cfg.Notifier = bus
		}
	}

	loopCfg := dialogue.DefaultConfig()
	loopCfg.WakePhrases = wakePhrases(*wake)
	if chime := notify.NewChime(*chimePath, player); chime != nil {
		loopCfg.OnWake = chime.Play
	}

	loop := dialogue.NewLoop(loopCfg, microphone, speaker, command.NewDispatcher(cfg))

	log.Info("Boot up - successful", "wake", loopCfg.WakePhrases)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Loop stopped", "err", err)
		os.Exit(1)
	}

	log.Info("Shutting down")
}

// voices orders the cloud voices before the local engine.
func voices(client *http.Client, player tts.Player, noAI bool) []tts.Voice {
	var out []tts.Voice

	if noAI {
		log.Info("Cloud voices disabled")
	} else {
		if key := os.Getenv(envElevenLabsKey); key != "" {
			out = append(out, tts.NewElevenLabs(key, os.Getenv(envElevenLabsVoice), client, player))
		}
		if key := os.Getenv(envOpenAIKey); key != "" {
			api := openai.NewClient(
				option.WithAPIKey(key),
				option.WithHTTPClient(client),
			)
			out = append(out, tts.NewOpenAI(api, "", player))
		}
	}

	return append(out, espeak.New())
}

func wakePhrases(flag []string) []string {
	if len(flag) > 0 {
		return flag
	}

	var out []string
	for _, p := range strings.Split(os.Getenv(envWakePhrases), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		return out
	}

	return dialogue.DefaultWakePhrases
}
