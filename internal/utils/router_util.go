package utils

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func RoutesSummary(r *mux.Router, logger logrus.FieldLogger) {
	err := r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		fields := logrus.Fields{}
		pathTemplate, err := route.GetPathTemplate()
		if err == nil {
			fields["route"] = pathTemplate
		}
		queriesTemplates, err := route.GetQueriesTemplates()
		if err == nil {
			fields["queries"] = strings.Join(queriesTemplates, ",")
		}
		methods, err := route.GetMethods()
		if err == nil {
			fields["methods"] = strings.Join(methods, ",")
		}
		if v := reflect.ValueOf(route.GetHandler()); v.Kind() == reflect.Func {
			fields["handler"] = runtime.FuncForPC(v.Pointer()).Name()
		}
		logger.WithFields(fields).Debug("registered route")
		return nil
	})

	if err != nil {
		logger.WithError(err).Warn("could not walk routes")
	}
}
