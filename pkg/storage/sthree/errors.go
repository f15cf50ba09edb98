package sthree

import (
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/scode/shastity/pkg/storage/status"
)

// isNotFound recognizes the "object does not exist" family of S3
// responses, which the store reports as plain absence rather than an
// error.
func isNotFound(err error) bool {
	rerr, ok := err.(awserr.RequestFailure)
	if !ok {
		return false
	}
	// any 404 counts: AWS answers NoSuchKey, minio answers NotFound,
	// and HeadObject carries no code at all
	return rerr.StatusCode() == 404
}

func apiErrors(err awserr.RequestFailure) error {
	// see: https://docs.aws.amazon.com/AmazonS3/latest/API/ErrorResponses.html#ErrorCodeList
	switch err.StatusCode() {
	case 400:
		if err.Code() == "InvalidBucketName" {
			return status.ErrInvalidResource.Wrap(err)
		}
		return status.ErrStorageAPI.Wrap(err)
	case 401:
		return status.ErrUnauthorized.Wrap(err)
	case 403:
		return status.ErrForbidden.Wrap(err)
	default:
		return status.ErrStorageAPI.Wrap(err)
	}
}

// toSentinelErrors maps backend failures onto the sentinel errors
// defined by the status package
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	if awsErr, isAWS := err.(awserr.RequestFailure); isAWS {
		return apiErrors(awsErr)
	}
	return err
}
