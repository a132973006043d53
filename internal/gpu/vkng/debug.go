package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

func debugMessengerInfo(sink gpu.DiagnosticsSink) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityVerbose | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityError,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			sink.Diagnostic(convertSeverity(severity), messageKind(msgType), data.Message)
			return false
		},
	}
}

func convertSeverity(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) gpu.Severity {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return gpu.SeverityError
	case severity&ext_debug_utils.SeverityWarning != 0:
		return gpu.SeverityWarning
	case severity&ext_debug_utils.SeverityInfo != 0:
		return gpu.SeverityInfo
	}
	return gpu.SeverityVerbose
}

func messageKind(msgType ext_debug_utils.DebugUtilsMessageTypeFlags) string {
	switch {
	case msgType&ext_debug_utils.TypeValidation != 0:
		return "validation"
	case msgType&ext_debug_utils.TypePerformance != 0:
		return "performance"
	}
	return "general"
}

type debugMessenger struct {
	driver ext_debug_utils.ExtensionDriver
	handle ext_debug_utils.DebugUtilsMessenger
}

func newDebugMessenger(instance core1_0.CoreInstanceDriver, info ext_debug_utils.DebugUtilsMessengerCreateInfo) (*debugMessenger, error) {
	driver := ext_debug_utils.CreateExtensionDriverFromCoreDriver(instance)
	handle, _, err := driver.CreateDebugUtilsMessenger(nil, info)
	if err != nil {
		return nil, errors.Wrap(err, "creating debug messenger")
	}
	return &debugMessenger{driver: driver, handle: handle}, nil
}

func (m *debugMessenger) Destroy() {
	m.driver.DestroyDebugUtilsMessenger(m.handle, nil)
}
