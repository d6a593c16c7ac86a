// Package encoder drives ffmpeg for the audio and video pipelines.
//
// Audio is normalized to stereo AAC-LC in MP4. Video is encoded to AV1,
// preferring a hardware encoder when the local ffmpeg build has one
// (NVENC, then AMF, then QSV) and falling back to SVT-AV1 otherwise.
// The capability probe runs per job so driver changes take effect without
// a restart.
package encoder
