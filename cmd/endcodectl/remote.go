package main

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/endcode/internal/codec"
	"github.com/RowanDark/endcode/internal/rpc"
)

// dialCodec is swapped out by tests to reach an in-memory server.
var dialCodec = func(addr string) (*rpc.Client, func(), error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return rpc.NewClient(conn), func() { _ = conn.Close() }, nil
}

func remoteConvert(ctx context.Context, addr string, dir codec.Direction, f codec.Format, text string) (string, error) {
	client, closeConn, err := dialCodec(addr)
	if err != nil {
		return "", err
	}
	defer closeConn()

	req, err := structpb.NewStruct(map[string]any{"format": f.String(), "text": text})
	if err != nil {
		return "", err
	}
	call := client.Encode
	if dir == codec.DirectionDecode {
		call = client.Decode
	}
	resp, err := call(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.GetFields()["output"].GetStringValue(), nil
}

func remoteDetect(ctx context.Context, addr, text string) ([]codec.Candidate, error) {
	client, closeConn, err := dialCodec(addr)
	if err != nil {
		return nil, err
	}
	defer closeConn()

	req, err := structpb.NewStruct(map[string]any{"text": text})
	if err != nil {
		return nil, err
	}
	resp, err := client.Detect(ctx, req)
	if err != nil {
		return nil, err
	}
	values := resp.GetFields()["candidates"].GetListValue().GetValues()
	out := make([]codec.Candidate, 0, len(values))
	for _, v := range values {
		fields := v.GetStructValue().GetFields()
		f, err := codec.ParseFormat(fields["format"].GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("server returned %w", err)
		}
		out = append(out, codec.Candidate{
			Format:     f,
			Decoded:    fields["decoded"].GetStringValue(),
			Confidence: fields["confidence"].GetNumberValue(),
			Reasoning:  fields["reasoning"].GetStringValue(),
		})
	}
	return out, nil
}

// remoteExitCode treats requests the server rejects as unknown as usage
// errors.
func remoteExitCode(err error) int {
	if status.Code(err) == codes.NotFound {
		return 2
	}
	return 1
}
