// Package testutil provides shared test doubles and fixtures for the relay.
//
// Mocks (mock_services.go) are testify mocks for the pipeline's collaborators:
//   - MockBlobStore: storage.BlobStore that also captures the staged bytes
//     at upload time, so tests can check what was relayed
//   - MockRecognizer: speech.Recognizer
//   - MockTranscriptCache: cache.TranscriptCache
//
// Fixtures (fixtures.go) build multipart request bodies and speech results.
//
// # Usage
//
//	store := testutil.NewMockBlobStore(t, "users_drive_storage")
//	store.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(nil)
//
//	body, contentType := testutil.MultipartBody(t, testutil.FilePart("audio", "talk.mp3", []byte("ID3")))
package testutil
