package sagemaker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"

	"github.com/voicerelay/voicerelay/internal/speech/backends/restutil"
	"github.com/voicerelay/voicerelay/internal/speech/engine"
)

// synthResponse is the JSON body returned by the inference endpoint.
// Endpoints either presign the rendered audio or report its object
// location directly.
type synthResponse struct {
	PresignURL string `json:"s3_presign_url"`
	Bucket     string `json:"s3_bucket"`
	Key        string `json:"s3_key"`
}

// endpointClient abstracts the managed-inference call and the audio
// retrieval that follows it.
type endpointClient interface {
	invoke(ctx context.Context, endpoint string, pl payload) (*synthResponse, error)
	fetchAudio(ctx context.Context, resp *synthResponse) ([]byte, error)
}

// awsClient talks to a SageMaker runtime endpoint and, when needed,
// to S3 for audio objects that were not presigned.
type awsClient struct {
	runtime *sagemakerruntime.Client
	storage *s3.Client
}

// newAWSClient builds a client from the call's credentials. Static
// keys and region are honored when present; otherwise the default AWS
// credential chain applies.
func newAWSClient(ctx context.Context, creds engine.Credentials) (endpointClient, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region := creds.Get(credAWSRegion); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	accessKey := creds.Get(credAWSAccessKeyID)
	secretKey := creds.Get(credAWSSecretAccessKey)
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, classifyAWS(err)
	}

	return &awsClient{
		runtime: sagemakerruntime.NewFromConfig(cfg),
		storage: s3.NewFromConfig(cfg),
	}, nil
}

func (c *awsClient) invoke(ctx context.Context, endpoint string, pl payload) (*synthResponse, error) {
	body, err := json.Marshal(pl)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", ErrInvalidValue, err)
	}

	out, err := c.runtime.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(endpoint),
		Body:         body,
		ContentType:  aws.String("application/json"),
	})
	if err != nil {
		return nil, classifyAWS(err)
	}

	var resp synthResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode endpoint response: %v", ErrBadRequest, err)
	}
	if resp.PresignURL == "" && (resp.Bucket == "" || resp.Key == "") {
		return nil, fmt.Errorf("%w: s3_presign_url", ErrMissingKey)
	}
	return &resp, nil
}

func (c *awsClient) fetchAudio(ctx context.Context, resp *synthResponse) ([]byte, error) {
	if resp.PresignURL != "" {
		audio, err := restutil.FetchBytes(ctx, resp.PresignURL)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch audio: %v", ErrConnection, err)
		}
		return audio, nil
	}

	obj, err := c.storage.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(resp.Bucket),
		Key:    aws.String(resp.Key),
	})
	if err != nil {
		return nil, classifyAWS(err)
	}
	defer obj.Body.Close()

	audio, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio object: %v", ErrConnection, err)
	}
	return audio, nil
}
