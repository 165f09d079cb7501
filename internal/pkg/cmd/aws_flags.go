package cmd

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/ec2metadata"
	"github.com/aws/aws-sdk-go/aws/session"
)

// AWSFlags represents a set of flags for connecting to AWS.
type AWSFlags struct {
	// Name of AWS region to use.
	Region string

	// Name of a shared AWS credentials profile to use.
	Profile string

	// Max number of retries to attempt on connection error.
	MaxRetries int
}

// NewAWSFlags returns a new AWSFlags.
func NewAWSFlags(app Flagger, maxRetries int) *AWSFlags {
	var f AWSFlags

	app.Flag("aws.region", "Name of AWS region to use.").
		PlaceHolder("REGION_NAME").
		StringVar(&f.Region)

	app.Flag("aws.profile", "Name of AWS credentials profile to use.").
		PlaceHolder("PROFILE_NAME").
		StringVar(&f.Profile)

	app.Flag("aws.max-retries", "Max number of retries to attempt on connection failure.").
		Hidden().
		Default(strconv.Itoa(maxRetries)).
		IntVar(&f.MaxRetries)

	return &f
}

// Session returns an AWS session configured based on the default AWS
// config chain and these flags.
func (f *AWSFlags) Session() (*session.Session, error) {
	cfg := aws.NewConfig().WithMaxRetries(f.MaxRetries)
	if f.Region != "" {
		cfg = cfg.WithRegion(f.Region)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		Profile:           f.Profile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}

	if aws.StringValue(sess.Config.Region) == "" {
		// Try setting region from EC2 metadata.
		metaClient := ec2metadata.New(sess)
		if region, err := metaClient.Region(); err == nil {
			sess.Config.Region = aws.String(region)
		}
	}

	return sess, nil
}
