package tts

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"

	ytts "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/tts/v3"

	"github.com/d1nch8g/briefcast/audio"
)

const (
	YandexTTSEndpoint = "tts.api.cloud.yandex.net:443"
)

// YandexVoices are SpeechKit v3 voices. Marina is the default.
var YandexVoices = []Voice{"marina", "alena", "filipp", "jane", "omazh", "zahar", "ermil", "john"}

type YandexConfig struct {
	// ApiKey takes precedence over IamToken when both are set.
	ApiKey   string
	IamToken string
	FolderID string
}

type YandexTTSClient struct {
	client   ytts.SynthesizerClient
	conn     *grpc.ClientConn
	apiKey   string
	iamToken string
	folderID string
}

// Ensure YandexTTSClient implements Synthesizer interface
var _ Synthesizer = (*YandexTTSClient)(nil)

func NewYandexTTSClient(config YandexConfig) (*YandexTTSClient, error) {
	// Create TLS credentials
	creds := credentials.NewTLS(&tls.Config{})

	// Create gRPC connection
	conn, err := grpc.Dial(YandexTTSEndpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to TTS service: %w", err)
	}

	return NewYandexTTSClientWithConn(conn, config), nil
}

// NewYandexTTSClientWithConn creates a client on an existing connection.
// The client takes ownership of conn.
func NewYandexTTSClientWithConn(conn *grpc.ClientConn, config YandexConfig) *YandexTTSClient {
	return &YandexTTSClient{
		client:   ytts.NewSynthesizerClient(conn),
		conn:     conn,
		apiKey:   config.ApiKey,
		iamToken: config.IamToken,
		folderID: config.FolderID,
	}
}

func (c *YandexTTSClient) Voices() []Voice { return YandexVoices }

// Synthesize collects the streamed raw PCM chunks and base64-encodes them.
func (c *YandexTTSClient) Synthesize(ctx context.Context, script string, voice Voice) (*Speech, error) {
	if c.apiKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Api-Key "+c.apiKey)
	} else {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.iamToken)
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "x-folder-id", c.folderID)

	stream, err := c.client.UtteranceSynthesis(ctx, c.buildRequest(script, voice))
	if err != nil {
		return nil, fmt.Errorf("failed to start synthesis: %w", err)
	}

	var pcm bytes.Buffer
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to receive audio data: %w", err)
		}
		if chunk := resp.GetAudioChunk(); chunk != nil {
			pcm.Write(chunk.GetData())
		}
	}
	if pcm.Len() == 0 {
		return nil, fmt.Errorf("no audio data received")
	}

	return &Speech{
		Audio: base64.StdEncoding.EncodeToString(pcm.Bytes()),
		Codec: audio.PCM24K,
	}, nil
}

func (c *YandexTTSClient) buildRequest(text string, voice Voice) *ytts.UtteranceSynthesisRequest {
	req := &ytts.UtteranceSynthesisRequest{}
	req.SetModel("general")
	req.SetText(text)

	voiceHint := &ytts.Hints{}
	voiceHint.SetVoice(string(voice))
	req.SetHints([]*ytts.Hints{voiceHint})

	// Raw LINEAR16 at the rate the finishing pipeline expects.
	rawAudio := &ytts.RawAudio{}
	rawAudio.SetAudioEncoding(ytts.RawAudio_LINEAR16_PCM)
	rawAudio.SetSampleRateHertz(audio.SpeechSampleRate)

	audioSpec := &ytts.AudioFormatOptions{}
	audioSpec.SetRawAudio(rawAudio)
	req.SetOutputAudioSpec(audioSpec)

	req.SetLoudnessNormalizationType(ytts.UtteranceSynthesisRequest_LUFS)
	return req
}

func (c *YandexTTSClient) Close() error {
	return c.conn.Close()
}
