package renderer

import (
	"fmt"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one rendered frame's pixels, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// RecordOptions describes an offscreen recording.
type RecordOptions struct {
	Duration   float64 // seconds
	FPS        int
	OutputFile string
	FFmpegPath string // empty uses ffmpeg from PATH
}

const numBuffers = 3

func encoderArgs(width, height, fps int) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", width, height),
		"r":       fps,
	}
	// glReadPixels returns rows bottom-up
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}
	return
}

// runEncoder is the consumer. It feeds frames to ffmpeg until frameChan closes.
func (r *Renderer) runEncoder(opts RecordOptions, frameChan <-chan *Frame, doneChan chan<- error) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := encoderArgs(r.width, r.height, opts.FPS)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if opts.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(opts.FFmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// unblock the writer if ffmpeg exits early
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	var writeErr error
	for frame := range frameChan {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
			r.log.Error("encoder write failed", "frame", frame.PTS, "err", err)
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		doneChan <- fmt.Errorf("ffmpeg failed: %w", err)
		return
	}
	doneChan <- writeErr
}

// Record is the producer. It renders Duration*FPS frames of the installed image
// at fixed time steps and encodes them to OutputFile. The wall clock is not used.
func (r *Renderer) Record(opts RecordOptions) error {
	if r.image == nil {
		return ErrNoImage
	}
	if opts.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", opts.FPS)
	}
	totalFrames := int(opts.Duration * float64(opts.FPS))
	timeStep := 1.0 / float64(opts.FPS)
	r.log.Info("starting record mode", "frames", totalFrames, "output", opts.OutputFile)

	frameChan := make(chan *Frame, numBuffers)
	encoderDoneChan := make(chan error, 1)
	go r.runEncoder(opts, frameChan, encoderDoneChan)

	frameSize := r.width * r.height * 4
	for i := 0; i < totalFrames; i++ {
		r.renderImage(Uniforms{
			Time:      float32(float64(i) * timeStep),
			TimeDelta: float32(timeStep),
			Frame:     int32(i),
		})
		pixels := make([]byte, frameSize)
		if err := r.offscreen.ReadPixels(pixels); err != nil {
			r.log.Error("failed to read pixels", "frame", i, "err", err)
			break
		}
		frameChan <- &Frame{Pixels: pixels, PTS: int64(i)}
	}
	close(frameChan)
	return <-encoderDoneChan
}
