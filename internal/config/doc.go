// Package config loads statetree.yaml.
//
// # Configuration File Structure
//
//	templates:
//	  dir: templates
//	  s3:
//	    bucket: my-templates
//	    prefix: prod/
//	    region: eu-west-1
//	log:
//	  level: info
//	  format: text
//	metrics:
//	  namespace: statetree
//	serve:
//	  addr: ":8080"
//
// A missing file is not an error; every field has a default. When
// templates.s3.bucket is set, templates are read from S3 instead of dir.
package config
